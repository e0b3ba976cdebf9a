package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

func TestAuditAppendAssignsDefaults(t *testing.T) {
	db := setupDB(t)
	entries := store.NewAuditEntriesRepository(db)
	ctx := context.Background()

	entry, err := entries.Append(ctx, &store.AuditEntry{
		Action:     string(auth.ActivityEventUserRegistered),
		TargetType: "user",
		TargetID:   "some-user",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	require.NotNil(t, entry.CreatedAt)

	stored, err := entries.GetByID(ctx, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(auth.ActivityEventUserRegistered), stored.Action)
}

func TestAuditListByActorReturnsInOrder(t *testing.T) {
	db := setupDB(t)
	entries := store.NewAuditEntriesRepository(db)
	ctx := context.Background()

	actorID := uuid.New()
	base := time.Now().Add(-time.Hour)

	for i, action := range []string{
		string(auth.ActivityEventUserRegistered),
		string(auth.ActivityEventUserLogin),
		string(auth.ActivityEventUserLogout),
	} {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		_, err := entries.Append(ctx, &store.AuditEntry{
			ActorID:   &actorID,
			Action:    action,
			CreatedAt: &createdAt,
		})
		require.NoError(t, err)
	}

	listed, err := entries.ListByActor(ctx, actorID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, string(auth.ActivityEventUserRegistered), listed[0].Action)
	assert.Equal(t, string(auth.ActivityEventUserLogin), listed[1].Action)
	assert.Equal(t, string(auth.ActivityEventUserLogout), listed[2].Action)

	other, err := entries.ListByActor(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRecorderRecordPersistsEvent(t *testing.T) {
	db := setupDB(t)
	entries := store.NewAuditEntriesRepository(db)
	recorder := store.NewRecorder(entries)
	ctx := context.Background()

	actorID := uuid.New()

	err := recorder.Record(ctx, auth.ActivityEvent{
		EventType:  auth.ActivityEventUserLogin,
		Actor:      auth.ActorRef{ID: actorID.String(), Type: "user"},
		UserID:     actorID.String(),
		TargetType: "user",
		TargetID:   actorID.String(),
		Metadata:   map[string]any{"email": "ada@example.com"},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	listed, err := entries.ListByActor(ctx, actorID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, string(auth.ActivityEventUserLogin), listed[0].Action)
	assert.Equal(t, actorID.String(), listed[0].TargetID)
}

type failingAuditEntries struct {
	store.AuditEntries
	err error
}

func (f failingAuditEntries) Append(ctx context.Context, entry *store.AuditEntry) (*store.AuditEntry, error) {
	return nil, f.err
}

func TestRecorderRecordSurfacesAppendError(t *testing.T) {
	recorder := store.NewRecorder(failingAuditEntries{err: errors.New("disk full")})

	err := recorder.Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventUserLogout,
	})
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, goerrors.CategoryInternal, rich.Category)
}

func TestEntryFromActivityEvent(t *testing.T) {
	actorID := uuid.New()
	occurred := time.Now().Add(-time.Minute)

	entry := store.EntryFromActivityEvent(auth.ActivityEvent{
		EventType:  auth.ActivityEventPasswordResetCompleted,
		Actor:      auth.ActorRef{ID: actorID.String(), Type: "user"},
		TargetType: "user",
		TargetID:   actorID.String(),
		Metadata:   map[string]any{"password_reset_id": "abc"},
		OccurredAt: occurred,
	})

	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actorID, *entry.ActorID)
	assert.Equal(t, string(auth.ActivityEventPasswordResetCompleted), entry.Action)
	require.NotNil(t, entry.CreatedAt)
	assert.True(t, entry.CreatedAt.Equal(occurred))
}

func TestEntryFromActivityEventNonUUIDActor(t *testing.T) {
	entry := store.EntryFromActivityEvent(auth.ActivityEvent{
		EventType: auth.ActivityEventLoginFailure,
		Actor:     auth.ActorRef{ID: "anonymous", Type: "unknown"},
	})

	assert.Nil(t, entry.ActorID)
	assert.Equal(t, string(auth.ActivityEventLoginFailure), entry.Action)
}
