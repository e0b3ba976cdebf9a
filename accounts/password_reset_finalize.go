package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

// ResetWindow is how long a reset token stays redeemable.
const ResetWindow = "24h"

type FinalizePasswordResetMessage struct {
	Session  string `json:"session" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Reset password session token"`
	Password string `json:"password" example:"some_secret_word" doc:"Password"`
}

func (p FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

// FinalizePasswordResetHandler consumes a reset token and sets the new
// password. Tokens are single use and expire after ResetWindow.
type FinalizePasswordResetHandler struct {
	repo   store.RepositoryManager
	logger auth.Logger
}

func NewFinalizePasswordResetHandler(repo store.RepositoryManager) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{repo: repo}
}

func (h *FinalizePasswordResetHandler) WithLogger(logger auth.Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		reset, err := h.repo.PasswordResets().GetByIDTx(ctx, tx, event.Session)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrResetNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve password reset request")
		}

		if reset.Status != store.ResetRequestedStatus {
			return ErrResetAlreadyUsed
		}

		if reset.CreatedAt == nil {
			return goerrors.New("password reset record is missing creation date", goerrors.CategoryInternal)
		}

		expired, err := auth.IsOutsideThresholdPeriod(*reset.CreatedAt, ResetWindow)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token expiration period")
		}

		if expired {
			return ErrResetExpired
		}

		passwordHash, err := auth.HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		if reset.UserID == nil {
			return goerrors.New("password reset record is not associated with a user", goerrors.CategoryInternal)
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, *reset.UserID, passwordHash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password in database")
		}

		r := store.MarkPasswordAsReseted(reset.ID)
		if _, err := h.repo.PasswordResets().UpdateTx(ctx, tx, r); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password reset status")
		}

		entry := &store.AuditEntry{
			ActorID:    reset.UserID,
			Action:     string(auth.ActivityEventPasswordResetCompleted),
			TargetType: "user",
			TargetID:   reset.UserID.String(),
			Details:    map[string]any{"password_reset_id": reset.ID.String()},
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
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize password reset")
	}

	return nil
}
