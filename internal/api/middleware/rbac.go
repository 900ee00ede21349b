package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/quickcart/product-catalog/internal/core/domain"
)

// RBAC gates a route on the authenticated caller's current role. The check is
// pure set membership; order and duplicates in allowedRoles are irrelevant.
// Must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := c.Get(CallerKey).(*domain.User)
			if !ok {
				return domain.ErrMissingCredentials
			}
			if _, ok := allowed[caller.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
