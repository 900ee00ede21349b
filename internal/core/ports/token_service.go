package ports

import (
	"context"
	"time"

	"github.com/quickcart/product-catalog/internal/core/domain"
)

// IssueTokenInput carries an authenticated caller's request to mint a token.
// TTL of zero means "use the configured default"; the transport layer rejects
// explicit non-positive values before they reach the service.
type IssueTokenInput struct {
	Caller         *domain.User
	TargetUsername string
	TTL            time.Duration
}

// IssuedToken is the result of a successful issuance.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	Role        domain.Role
	ExpiresAt   time.Time
}

// TokenService decides who may mint tokens for whom and produces them.
type TokenService interface {
	Issue(ctx context.Context, input IssueTokenInput) (*IssuedToken, error)
}

// IssueLimiter caps how often a caller may mint tokens.
type IssueLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
}
