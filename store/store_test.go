package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/rootlinehq/rootline/store"
)

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	require.NoError(t, store.RunMigrations(context.Background(), sqldb))

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func mustRegisterUser(t *testing.T, users store.Users, email, displayName, passwordHash string) *store.User {
	t.Helper()

	user, err := users.Register(context.Background(), &store.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	return user
}
