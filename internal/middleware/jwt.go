package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminIDKey is the echo.Context key holding the authenticated admin id.
const AdminIDKey = "admin_id"

// Authorizer verifies an admin bearer token.
type Authorizer interface {
	Authorize(token string) (int64, error)
}

// AdminAuth rejects requests without a valid admin bearer token before
// they reach any handler. On success the admin id is stored under
// AdminIDKey.
func AdminAuth(authz Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			id, err := authz.Authorize(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(AdminIDKey, id)
			return next(c)
		}
	}
}
