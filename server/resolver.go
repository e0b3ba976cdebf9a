package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

// sessionUserKey is where RequireAuthenticated stores the resolved user.
const sessionUserKey = "session:user"

// SessionResolver turns an incoming request into the user behind it, if any.
// The Authorization header wins over the cookie when both carry a token.
type SessionResolver struct {
	auther auth.Authenticator
	users  store.Users
	logger auth.Logger
}

func NewSessionResolver(auther auth.Authenticator, users store.Users) *SessionResolver {
	return &SessionResolver{
		auther: auther,
		users:  users,
		logger: auth.DefaultLogger(),
	}
}

func (r *SessionResolver) WithLogger(logger auth.Logger) *SessionResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// TokenFromRequest extracts the raw session token. Bearer header first,
// cookie second, empty string when the request is anonymous.
func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}

	return c.Cookies(SessionCookieName)
}

// ResolveFromRequest returns the user for the request's token. Anonymous
// requests and invalid or expired tokens resolve to (nil, nil); an error
// means the lookup itself failed.
func (r *SessionResolver) ResolveFromRequest(c *fiber.Ctx) (*store.UserSummary, error) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, nil
	}

	session, err := r.auther.SessionFromToken(token)
	if err != nil {
		// a bad token is an anonymous request, not a server failure
		return nil, nil
	}

	user, err := r.users.GetByID(c.Context(), session.GetUserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return user.Summary(), nil
}

// RequireAuthenticated rejects requests that do not resolve to a user and
// stores the resolved summary for downstream handlers.
func (r *SessionResolver) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := r.ResolveFromRequest(c)
		if err != nil {
			return err
		}

		if user == nil {
			return auth.ErrUnableToFindSession
		}

		c.Locals(sessionUserKey, user)
		return c.Next()
	}
}

// SessionUser returns the user stored by RequireAuthenticated, or nil.
func SessionUser(c *fiber.Ctx) *store.UserSummary {
	user, _ := c.Locals(sessionUserKey).(*store.UserSummary)
	return user
}
