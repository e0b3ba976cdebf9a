package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email."`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	Reset   *store.PasswordReset
	Success bool
}

// InitializePasswordResetHandler opens a reset window for an account. The
// outcome is identical whether or not the email is registered; only the
// mailbox owner learns the difference.
type InitializePasswordResetHandler struct {
	repo   store.RepositoryManager
	logger auth.Logger
}

func NewInitializePasswordResetHandler(repo store.RepositoryManager) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{repo: repo}
}

func (h *InitializePasswordResetHandler) WithLogger(logger auth.Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	reset := &store.PasswordReset{}
	resp := &InitializePasswordResetResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var err error

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				// unknown email, same response as a known one
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
		}

		reset.ID = uuid.New()
		reset.UserID = &user.ID
		reset.Email = user.Email
		reset.Status = store.ResetRequestedStatus

		createdReset, err := h.repo.PasswordResets().CreateTx(ctx, tx, reset)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset record")
		}
		resp.Reset = createdReset

		entry := &store.AuditEntry{
			ActorID:    &user.ID,
			Action:     string(auth.ActivityEventPasswordResetRequested),
			TargetType: "user",
			TargetID:   user.ID.String(),
			Details:    map[string]any{"password_reset_id": createdReset.ID.String()},
		}
		if _, err := h.repo.AuditEntries().AppendTx(ctx, tx, entry); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record password reset audit entry")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize password reset")
	}

	if resp.Reset != nil {
		// TODO: wire a real mailer for reset links
		h.getLogger().Info("password reset link for %s: /password-reset/%s", resp.Reset.Email, resp.Reset.ID)
	}

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *InitializePasswordResetHandler) getLogger() auth.Logger {
	if h.logger != nil {
		return h.logger
	}
	return auth.DefaultLogger()
}
