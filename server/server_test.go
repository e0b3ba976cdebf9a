package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/config"
	"github.com/rootlinehq/rootline/server"
	"github.com/rootlinehq/rootline/store"
)

type testEnv struct {
	srv    *server.Server
	repo   store.RepositoryManager
	db     *bun.DB
	auther *auth.Auther
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	require.NoError(t, store.RunMigrations(context.Background(), sqldb))

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	repo := store.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())

	cfg := &config.Config{
		SigningKey:    "test-signing-key",
		TokenTTLHours: 168,
		Issuer:        "rootline-test",
	}

	recorder := store.NewRecorder(repo.AuditEntries())
	provider := store.NewIdentityProvider(repo.Users())

	auther := auth.NewAuthenticator(provider, cfg).WithActivitySink(recorder)

	srv := server.New(server.Options{
		Repo:      repo,
		Auther:    auther,
		Tokens:    auther.TokenService(),
		Recorder:  recorder,
		CookieTTL: time.Duration(cfg.TokenTTLHours) * time.Hour,
	})

	return &testEnv{
		srv:    srv,
		repo:   repo,
		db:     db,
		auther: auther,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(raw)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == server.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func (e *testEnv) registerAccount(t *testing.T, email, password string) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/auth/register", map[string]string{
		"email":        email,
		"display_name": "Test User",
		"password":     password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	return token
}
