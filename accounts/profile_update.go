package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

type UpdateProfileMessage struct {
	UserID      uuid.UUID `json:"-"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	OnResponse  func(resp *UpdateProfileResponse)
}

func (m UpdateProfileMessage) Type() string { return "user.profile_update" }

type UpdateProfileResponse struct {
	User    *store.UserSummary
	Success bool
}

// UpdateProfileHandler updates the mutable profile fields. Phone numbers are
// normalized to E.164 before they hit storage.
type UpdateProfileHandler struct {
	repo store.RepositoryManager
}

func NewUpdateProfileHandler(repo store.RepositoryManager) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during profile update")
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) error {
	resp := &UpdateProfileResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	phone, err := normalizePhone(event.Phone)
	if err != nil {
		return err
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByIDTx(ctx, tx, event.UserID.String())
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return auth.ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user for profile update")
		}

		changes := map[string]any{}

		if event.DisplayName != "" && event.DisplayName != user.DisplayName {
			changes["display_name"] = map[string]string{"from": user.DisplayName, "to": event.DisplayName}
			user.DisplayName = event.DisplayName
		}

		if phone != "" && phone != user.Phone {
			changes["phone"] = map[string]string{"from": user.Phone, "to": phone}
			user.Phone = phone
		}

		if len(changes) == 0 {
			resp.User = user.Summary()
			return nil
		}

		updated, err := h.repo.Users().UpdateTx(ctx, tx, user, repository.UpdateByID(user.ID.String()))
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update profile")
		}
		resp.User = updated.Summary()

		entry := &store.AuditEntry{
			ActorID:    &user.ID,
			Action:     string(auth.ActivityEventProfileUpdated),
			TargetType: "user",
			TargetID:   user.ID.String(),
			Details:    changes,
		}
		if _, err := h.repo.AuditEntries().AppendTx(ctx, tx, entry); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record profile update audit entry")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "profile update transaction failed")
	}

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

// normalizePhone validates and formats a phone number as E.164. An empty
// phone means "leave unchanged" and passes through.
func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(phone, "US")
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid phone number").
			WithCode(goerrors.CodeBadRequest)
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", goerrors.New("invalid phone number", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
