package store

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rootlinehq/rootline/auth"
)

// AuditEntries is the append-only audit repository. It deliberately exposes
// no update or delete path.
type AuditEntries interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*AuditEntry, error)
	Append(ctx context.Context, entry *AuditEntry) (*AuditEntry, error)
	AppendTx(ctx context.Context, tx bun.IDB, entry *AuditEntry) (*AuditEntry, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*AuditEntry, error)
}

type auditEntries struct {
	repo repository.Repository[*AuditEntry]
	db   *bun.DB
}

var _ AuditEntries = (*auditEntries)(nil)

func NewAuditEntriesRepository(db *bun.DB) AuditEntries {
	repo := repository.NewRepository[*AuditEntry](db, repository.ModelHandlers[*AuditEntry]{
		NewRecord: func() *AuditEntry { return &AuditEntry{} },
		GetID: func(e *AuditEntry) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *AuditEntry, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
	})

	return &auditEntries{
		repo: repo,
		db:   db,
	}
}

func (a *auditEntries) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*AuditEntry, error) {
	return a.repo.GetByID(ctx, id, criteria...)
}

func (a *auditEntries) Append(ctx context.Context, entry *AuditEntry) (*AuditEntry, error) {
	return a.AppendTx(ctx, a.db, entry)
}

func (a *auditEntries) AppendTx(ctx context.Context, tx bun.IDB, entry *AuditEntry) (*AuditEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt == nil {
		now := time.Now()
		entry.CreatedAt = &now
	}
	return a.repo.CreateTx(ctx, tx, entry)
}

func (a *auditEntries) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	err := a.db.NewSelect().
		Model(&entries).
		Where("?TableAlias.actor_id = ?", actorID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Recorder adapts the audit repository to auth.ActivitySink so login and
// account commands can append audit rows without knowing about persistence.
type Recorder struct {
	entries AuditEntries
	logger  auth.Logger
}

var _ auth.ActivitySink = (*Recorder)(nil)

func NewRecorder(entries AuditEntries) *Recorder {
	return &Recorder{entries: entries}
}

func (r *Recorder) WithLogger(logger auth.Logger) *Recorder {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Record appends one audit entry for the event. The write is synchronous:
// callers that treat audit persistence as mandatory see the error.
func (r *Recorder) Record(ctx context.Context, event auth.ActivityEvent) error {
	entry := EntryFromActivityEvent(event)

	if _, err := r.entries.Append(ctx, entry); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to append audit entry")
	}

	return nil
}

// EntryFromActivityEvent maps an activity event onto an audit row.
func EntryFromActivityEvent(event auth.ActivityEvent) *AuditEntry {
	entry := &AuditEntry{
		Action:     string(event.EventType),
		TargetType: event.TargetType,
		TargetID:   event.TargetID,
		Details:    event.Metadata,
	}

	if !event.OccurredAt.IsZero() {
		occurred := event.OccurredAt
		entry.CreatedAt = &occurred
	}

	if event.Actor.ID != "" {
		if actorID, err := uuid.Parse(event.Actor.ID); err == nil {
			entry.ActorID = &actorID
		}
	}

	return entry
}
