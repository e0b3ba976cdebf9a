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

type ResetSessionCheckMessage struct {
	Session    string `json:"session" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Reset password session token"`
	OnResponse func(a *ResetSessionCheckResponse)
}

func (m ResetSessionCheckMessage) Type() string { return "user.password_reset_check" }

type ResetSessionCheckResponse struct {
	Found   bool `json:"found" example:"true" doc:"Has the request been found?"`
	Expired bool `json:"expired" example:"true" doc:"Has the request expired?"`
}

// ResetSessionCheckHandler answers whether a reset token is still redeemable
// without consuming it. The reset form uses it before showing the password
// fields.
type ResetSessionCheckHandler struct {
	repo store.RepositoryManager
}

func NewResetSessionCheckHandler(repo store.RepositoryManager) *ResetSessionCheckHandler {
	return &ResetSessionCheckHandler{repo: repo}
}

func (h *ResetSessionCheckHandler) Execute(ctx context.Context, event ResetSessionCheckMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during reset session check")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResetSessionCheckHandler) execute(ctx context.Context, event ResetSessionCheckMessage) error {
	resp := &ResetSessionCheckResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		reset, err := h.repo.PasswordResets().GetByIDTx(ctx, tx, event.Session)
		if err != nil {
			// not found is part of the expected flow, not an application error
			if repository.IsRecordNotFound(err) {
				resp.Found = false
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve reset session")
		}

		resp.Found = true

		if reset.Status != store.ResetRequestedStatus {
			resp.Expired = true
			return nil
		}

		if reset.CreatedAt == nil {
			return goerrors.New("password reset record is missing creation date", goerrors.CategoryInternal)
		}

		expired, err := auth.IsOutsideThresholdPeriod(*reset.CreatedAt, ResetWindow)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token expiration period")
		}

		resp.Expired = expired
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check reset session")
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
