package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rootlinehq/rootline/auth"
)

type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 168,
		issuer:          "rootline-test",
		audience:        []string{"rootline-test"},
	}
}

type stubIdentity struct {
	id          string
	email       string
	displayName string
}

func (s stubIdentity) ID() string          { return s.id }
func (s stubIdentity) Email() string       { return s.email }
func (s stubIdentity) DisplayName() string { return s.displayName }

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

// recordingSink collects activity events in memory.
type recordingSink struct {
	events []auth.ActivityEvent
	err    error
}

func (r *recordingSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}
