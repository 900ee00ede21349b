package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/ports"
	"github.com/quickcart/product-catalog/internal/core/token"
)

// TokenService implements token issuance. The delegation rule lives here and
// nowhere else: admins may mint tokens for any user, everyone else only for
// themselves. The rule is evaluated on every call against the caller record
// the middleware re-resolved for this request.
type TokenService struct {
	users   ports.UserRepository
	codec   *token.Codec
	limiter ports.IssueLimiter
	logger  zerolog.Logger
}

// NewTokenService wires the issuance use case. limiter may be nil, in which
// case issuance is unthrottled.
func NewTokenService(users ports.UserRepository, codec *token.Codec, limiter ports.IssueLimiter, logger zerolog.Logger) *TokenService {
	return &TokenService{users: users, codec: codec, limiter: limiter, logger: logger}
}

func (s *TokenService) Issue(ctx context.Context, input ports.IssueTokenInput) (*ports.IssuedToken, error) {
	caller := input.Caller
	if caller == nil {
		return nil, domain.ErrMissingCredentials
	}

	if caller.Role != domain.RoleAdmin && caller.Username != input.TargetUsername {
		s.logger.Warn().
			Str("caller", caller.Username).
			Str("target", input.TargetUsername).
			Msg("delegation rule violated")
		return nil, domain.ErrForbidden
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, caller.Username)
		if err != nil {
			// Fail open: a limiter outage must not take token issuance down.
			s.logger.Warn().Err(err).Str("caller", caller.Username).Msg("issue limiter unavailable")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	target, err := s.users.FindByUsername(ctx, input.TargetUsername)
	if err != nil {
		return nil, err
	}

	// The token embeds the target's role as of now. A later role change in
	// the directory does not rewrite tokens already in flight.
	signed, expiresAt, err := s.codec.Encode(target.Username, target.Role, input.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().
		Str("caller", caller.Username).
		Str("subject", target.Username).
		Str("role", string(target.Role)).
		Time("expires_at", expiresAt).
		Msg("token issued")

	return &ports.IssuedToken{
		AccessToken: signed,
		TokenType:   "bearer",
		Role:        target.Role,
		ExpiresAt:   expiresAt,
	}, nil
}
