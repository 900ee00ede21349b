package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/quickcart/product-catalog/internal/api/middleware"
	"github.com/quickcart/product-catalog/internal/core/domain"
)

// ctxCaller extracts the authenticated caller injected by the Auth
// middleware. Absence means the middleware did not run for this route, which
// is a wiring bug surfaced as a credentials failure rather than a panic.
func ctxCaller(c echo.Context) (*domain.User, error) {
	caller, ok := c.Get(middleware.CallerKey).(*domain.User)
	if !ok || caller == nil {
		return nil, domain.ErrMissingCredentials
	}
	return caller, nil
}
