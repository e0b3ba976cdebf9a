package auth

import (
	"context"
	"time"
)

// ActivityEventType enumerates the audit action vocabulary.
type ActivityEventType string

const (
	ActivityEventUserRegistered         ActivityEventType = "USER_REGISTERED"
	ActivityEventUserLogin              ActivityEventType = "USER_LOGIN"
	ActivityEventUserLogout             ActivityEventType = "USER_LOGOUT"
	ActivityEventLoginFailure           ActivityEventType = "LOGIN_FAILED"
	ActivityEventPasswordResetRequested ActivityEventType = "PASSWORD_RESET_REQUESTED"
	ActivityEventPasswordResetCompleted ActivityEventType = "PASSWORD_RESET_COMPLETED"
	ActivityEventProfileUpdated         ActivityEventType = "USER_PROFILE_UPDATED"
)

// ActorRef identifies who performed an action.
type ActorRef struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
}

// ActivityEvent captures audit information about a security-relevant action.
// Entries derived from it are write-once; nothing in this package updates or
// deletes a recorded event.
type ActivityEvent struct {
	EventType  ActivityEventType
	Actor      ActorRef
	UserID     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
