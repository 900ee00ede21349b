package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quickcart/product-catalog/internal/api/metrics"
	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/ports"
	"github.com/quickcart/product-catalog/internal/core/token"
)

// CallerKey is the echo context key under which Auth stores the resolved
// *domain.User for the request.
const CallerKey = "caller"

// Auth validates the bearer token and injects the caller into the context.
// The subject is always re-resolved against the user directory, so the caller
// carries the directory's current role rather than the role frozen in the
// token. Rejections are deliberately coarse: every bad token is the same
// invalid-credentials failure to the client, with the concrete cause logged.
func Auth(codec *token.Codec, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return domain.ErrMissingCredentials
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
				return domain.ErrMalformedCredentials
			}

			claims, err := codec.Decode(parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("token rejected")
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrInvalidCredentials
			}

			if claims.Subject == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_subject").Inc()
				return domain.ErrInvalidCredentials
			}

			caller, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// Subject was deleted after issuance.
					log.Debug().Str("subject", claims.Subject).Msg("token subject no longer in directory")
					metrics.AuthFailuresTotal.WithLabelValues("unknown_subject").Inc()
					return domain.ErrInvalidCredentials
				}
				return err
			}

			c.Set(CallerKey, caller)
			return next(c)
		}
	}
}
