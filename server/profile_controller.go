package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/rootlinehq/rootline/accounts"
	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

// ProfileController serves the authenticated user's own profile.
type ProfileController struct {
	Repo   store.RepositoryManager
	Logger auth.Logger
}

// Show returns the caller's profile.
func (p *ProfileController) Show(c *fiber.Ctx) error {
	user := SessionUser(c)
	if user == nil {
		return auth.ErrUnableToFindSession
	}

	record, err := p.Repo.Users().GetByID(c.Context(), user.ID.String())
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// UpdateProfileRequest payload
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

// Validate will run validation rules
func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(1, 200)),
	)
}

// Update changes the caller's display name and phone number.
func (p *ProfileController) Update(c *fiber.Ctx) error {
	user := SessionUser(c)
	if user == nil {
		return auth.ErrUnableToFindSession
	}

	payload := new(UpdateProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	var resp *accounts.UpdateProfileResponse

	handler := accounts.NewUpdateProfileHandler(p.Repo)
	err := handler.Execute(c.Context(), accounts.UpdateProfileMessage{
		UserID:      user.ID,
		DisplayName: payload.DisplayName,
		Phone:       payload.Phone,
		OnResponse: func(r *accounts.UpdateProfileResponse) {
			resp = r
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": resp.User,
	})
}
