package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/rootlinehq/rootline/accounts"
	"github.com/rootlinehq/rootline/store"
)

func setupRepo(t *testing.T) (store.RepositoryManager, *bun.DB) {
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

	return repo, db
}

func registerUser(t *testing.T, repo store.RepositoryManager, email, password string) *store.UserSummary {
	t.Helper()

	var resp *accounts.RegisterUserResponse
	handler := accounts.NewRegisterUserHandler(repo)

	err := handler.Execute(context.Background(), accounts.RegisterUserMessage{
		Email:       email,
		DisplayName: "Test User",
		Password:    password,
		OnResponse: func(r *accounts.RegisterUserResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, resp.User)

	return resp.User
}

func auditActions(t *testing.T, repo store.RepositoryManager, actorID uuid.UUID) []string {
	t.Helper()

	entries, err := repo.AuditEntries().ListByActor(context.Background(), actorID)
	require.NoError(t, err)

	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
