package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults used when the environment does not say otherwise.
const (
	DefaultAddr          = ":3000"
	DefaultDSN           = "file:rootline.db"
	DefaultTokenTTLHours = 168
	DefaultIssuer        = "rootline"
)

// Config is the process configuration, loaded from ROOTLINE_* environment
// variables. It satisfies the auth configuration contract.
type Config struct {
	Addr             string
	DSN              string
	SigningKey       string
	TokenTTLHours    int
	Issuer           string
	Audience         []string
	SecureCookies    bool
	Debug            bool
	DeterministicIDs bool
}

// New returns a Config populated from the environment.
func New() *Config {
	return &Config{
		Addr:             envString("ROOTLINE_ADDR", DefaultAddr),
		DSN:              envString("ROOTLINE_DSN", DefaultDSN),
		SigningKey:       envString("ROOTLINE_SIGNING_KEY", ""),
		TokenTTLHours:    envInt("ROOTLINE_TOKEN_TTL_HOURS", DefaultTokenTTLHours),
		Issuer:           envString("ROOTLINE_ISSUER", DefaultIssuer),
		Audience:         envList("ROOTLINE_AUDIENCE"),
		SecureCookies:    envBool("ROOTLINE_SECURE_COOKIES"),
		Debug:            envBool("ROOTLINE_DEBUG"),
		DeterministicIDs: envBool("ROOTLINE_DETERMINISTIC_IDS"),
	}
}

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetTokenExpiration() int {
	return c.TokenTTLHours
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

func (c *Config) GetAudience() []string {
	return c.Audience
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func envList(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
