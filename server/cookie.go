package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "auth-token"

// setSessionCookie attaches the session token to the response. The cookie is
// HTTP-only and scoped to the whole site; Secure is flipped on by deployment
// configuration so local development over plain HTTP still works.
func setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately. The token itself
// stays valid until it expires; logout only removes the browser's copy.
func clearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
