package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RBAC enforces role-based access control. seedAdminEmail is the
// break-glass operator identity: a matching email passes regardless of
// the role claim, so the first administrator can get in before any
// profile row grants the admin role. Empty disables the fallback.
func RBAC(seedAdminEmail string, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; ok {
				return next(c)
			}

			email, _ := c.Get("email").(string)
			if seedAdminEmail != "" && strings.EqualFold(email, seedAdminEmail) {
				return next(c)
			}

			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
