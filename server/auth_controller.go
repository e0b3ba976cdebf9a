package server

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/rootlinehq/rootline/accounts"
	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

// AuthController owns the credential endpoints: register, login, logout, and
// the password reset flow.
type AuthController struct {
	Debug         bool
	Logger        auth.Logger
	Repo          store.RepositoryManager
	Auther        auth.Authenticator
	Tokens        auth.TokenService
	Recorder      auth.ActivitySink
	Resolver      *SessionResolver
	CookieTTL     time.Duration
	SecureCookies bool

	DeterministicIDs bool
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest payload
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// Register creates the account, then behaves exactly like a successful login:
// the response carries the token and the session cookie is set.
func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	var registered *accounts.RegisterUserResponse

	register := accounts.NewRegisterUserHandler(a.Repo).WithLogger(a.Logger)
	err := register.Execute(c.Context(), accounts.RegisterUserMessage{
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		Phone:       payload.Phone,
		Password:    payload.Password,
		UseHashid:   a.DeterministicIDs,
		OnResponse: func(resp *accounts.RegisterUserResponse) {
			registered = resp
		},
	})
	if err != nil {
		return err
	}

	token, err := a.Tokens.Generate(store.IdentityFromUser(&store.User{
		ID:          registered.User.ID,
		Email:       registered.User.Email,
		DisplayName: registered.User.DisplayName,
	}))
	if err != nil {
		return err
	}

	setSessionCookie(c, token, a.CookieTTL, a.SecureCookies)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  registered.User,
	})
}

// Login verifies credentials and hands back a session token. Bad email and
// bad password are indistinguishable in the response.
func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := a.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		if auth.IsInvalidCredentialsError(err) {
			return auth.ErrInvalidCredentials
		}
		return err
	}

	user, err := a.Repo.Users().GetByEmail(c.Context(), payload.Email)
	if err != nil {
		return err
	}

	setSessionCookie(c, token, a.CookieTTL, a.SecureCookies)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Summary(),
	})
}

// Logout clears the session cookie. Tokens are self-contained so the server
// keeps no state to revoke; the audit trail still gets a USER_LOGOUT entry
// when the request carried a valid session.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	user, err := a.Resolver.ResolveFromRequest(c)
	if err != nil {
		return err
	}

	if user != nil {
		event := auth.ActivityEvent{
			EventType:  auth.ActivityEventUserLogout,
			Actor:      auth.ActorRef{ID: user.ID.String(), Type: "user"},
			UserID:     user.ID.String(),
			TargetType: "user",
			TargetID:   user.ID.String(),
			Metadata:   map[string]any{"email": user.Email},
			OccurredAt: time.Now(),
		}
		if err := a.Recorder.Record(c.Context(), event); err != nil {
			return err
		}
	}

	clearSessionCookie(c, a.SecureCookies)

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// PasswordResetRequest payload
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r PasswordResetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// PasswordResetInit opens a reset window. The response is the same whether
// or not the email has an account.
func (a *AuthController) PasswordResetInit(c *fiber.Ctx) error {
	payload := new(PasswordResetRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := accounts.NewInitializePasswordResetHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(c.Context(), accounts.InitializePasswordResetMessage{
		Email: payload.Email,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// PasswordResetStatus reports whether a reset token is still redeemable.
func (a *AuthController) PasswordResetStatus(c *fiber.Ctx) error {
	var check *accounts.ResetSessionCheckResponse

	handler := accounts.NewResetSessionCheckHandler(a.Repo)
	err := handler.Execute(c.Context(), accounts.ResetSessionCheckMessage{
		Session: c.Params("id"),
		OnResponse: func(resp *accounts.ResetSessionCheckResponse) {
			check = resp
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(check)
}

// PasswordResetFinalizeRequest payload
type PasswordResetFinalizeRequest struct {
	Password string `json:"password"`
}

// Validate will run validation rules
func (r PasswordResetFinalizeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// PasswordResetFinalize consumes a reset token and sets the new password.
func (a *AuthController) PasswordResetFinalize(c *fiber.Ctx) error {
	payload := new(PasswordResetFinalizeRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := accounts.NewFinalizePasswordResetHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(c.Context(), accounts.FinalizePasswordResetMessage{
		Session:  c.Params("id"),
		Password: payload.Password,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
