package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "shelter_session"
	// ContextKeyIdentity is where Auth stores the resolved domain.Identity.
	ContextKeyIdentity = "identity"
)

// Authorizer resolves a session token to an identity holding the required role.
type Authorizer interface {
	Authorize(ctx context.Context, token string, required domain.Role) (*domain.Identity, error)
}

// Auth resolves the request's session token and injects the identity into
// context. Errors are returned unchanged so the HTTP error handler maps them
// (unauthenticated → 401, forbidden → 403).
func Auth(authz Authorizer, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := authz.Authorize(c.Request().Context(), Token(c), required)
			if err != nil {
				return err
			}
			c.Set(ContextKeyIdentity, *id)
			return next(c)
		}
	}
}

// Token returns the session token from the Authorization header, falling
// back to the session cookie. Empty when neither is present.
func Token(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

// IdentityFrom returns the identity set by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(ContextKeyIdentity).(domain.Identity)
	return id, ok
}
