package handlers

import (
	"strings"

	"artfolio/internal/auth"
	apperrors "artfolio/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

const (
	sessionLocal  = "session"
	SessionCookie = "artfolio_session"
)

// RequireSession resolves the bearer token or session cookie into an
// *auth.Session stored in the request locals. Requests without a valid
// session are rejected before reaching any admin handler.
func RequireSession(provider *auth.Provider, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := provider.Session(c.UserContext(), tokenFrom(c))
		if err != nil {
			return apperrors.HandleError(c, log, apperrors.ErrUnauthorized(err))
		}
		c.Locals(sessionLocal, s)
		return c.Next()
	}
}

// SessionFrom returns the session placed by RequireSession.
func SessionFrom(c *fiber.Ctx) (*auth.Session, bool) {
	s, ok := c.Locals(sessionLocal).(*auth.Session)
	return s, ok
}

func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Cookies(SessionCookie)
}

// param copies a route parameter out of fiber's reusable request buffer so it
// can outlive the request.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}
