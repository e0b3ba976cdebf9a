package server_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlinehq/rootline/auth"
)

func TestProfileShow(t *testing.T) {
	env := setupServer(t)

	token := env.registerAccount(t, "ada@example.com", "super-secret-pass")

	resp := env.request(t, http.MethodGet, "/profile/", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "Test User", body["display_name"])

	// the hash never crosses the HTTP boundary
	assert.NotContains(t, body, "password_hash")
}

func TestProfileUpdate(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	token := env.registerAccount(t, "ada@example.com", "super-secret-pass")

	resp := env.request(t, http.MethodPut, "/profile/", map[string]string{
		"display_name": "Ada King",
		"phone":        "+14155552671",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada King", user["display_name"])

	stored, err := env.repo.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", stored.DisplayName)
	assert.Equal(t, "+14155552671", stored.Phone)

	entries, err := env.repo.AuditEntries().ListByActor(ctx, stored.ID)
	require.NoError(t, err)

	var actions []string
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	assert.Contains(t, actions, string(auth.ActivityEventProfileUpdated))
}

func TestProfileUpdateInvalidPhone(t *testing.T) {
	env := setupServer(t)

	token := env.registerAccount(t, "ada@example.com", "super-secret-pass")

	resp := env.request(t, http.MethodPut, "/profile/", map[string]string{
		"phone": "not-a-phone",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProfileRequiresAuth(t *testing.T) {
	env := setupServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		resp := env.request(t, method, "/profile/", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, method)
		resp.Body.Close()
	}
}
