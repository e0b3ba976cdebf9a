package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

var (
	testPassword     = "super-secret-pass"
	testPasswordOnce sync.Once
	testPasswordHash string
)

// hashing at production cost is slow, do it once for the package
func passwordHash(t *testing.T) string {
	t.Helper()
	testPasswordOnce.Do(func() {
		hash, err := auth.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		testPasswordHash = hash
	})
	return testPasswordHash
}

func TestVerifyIdentity(t *testing.T) {
	db := setupDB(t)
	users := store.NewUsersRepository(db)
	provider := store.NewIdentityProvider(users)
	ctx := context.Background()

	user := mustRegisterUser(t, users, "ada@example.com", "Ada Lovelace", passwordHash(t))

	identity, err := provider.VerifyIdentity(ctx, "ada@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "ada@example.com", identity.Email())
	assert.Equal(t, "Ada Lovelace", identity.DisplayName())

	updated, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.NotNil(t, updated.LoggedInAt, "successful verification tracks login time")
}

func TestVerifyIdentityUniformFailure(t *testing.T) {
	db := setupDB(t)
	users := store.NewUsersRepository(db)
	provider := store.NewIdentityProvider(users)
	ctx := context.Background()

	mustRegisterUser(t, users, "grace@example.com", "Grace Hopper", passwordHash(t))

	_, wrongPassword := provider.VerifyIdentity(ctx, "grace@example.com", "not-the-password")
	_, unknownEmail := provider.VerifyIdentity(ctx, "nobody@example.com", testPassword)

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)

	assert.True(t, auth.IsInvalidCredentialsError(wrongPassword))
	assert.True(t, auth.IsInvalidCredentialsError(unknownEmail))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestFindIdentityByIdentifier(t *testing.T) {
	db := setupDB(t)
	users := store.NewUsersRepository(db)
	provider := store.NewIdentityProvider(users)
	ctx := context.Background()

	user := mustRegisterUser(t, users, "alan@example.com", "Alan Turing", "hash")

	byID, err := provider.FindIdentityByIdentifier(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), byID.ID())

	byEmail, err := provider.FindIdentityByIdentifier(ctx, "alan@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), byEmail.ID())

	_, err = provider.FindIdentityByIdentifier(ctx, "unknown@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}
