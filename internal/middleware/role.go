package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Role names carried in the JWT "role" claim.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// RequireRole returns a middleware that enforces that the
// authenticated caller has one of the given roles.  It assumes JWTAuth
// ran earlier in the chain and stored the role claim in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
