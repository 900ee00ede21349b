// Package token encodes and decodes the signed access tokens used by the
// catalog API. Tokens are compact JWTs signed with HS256 and a process-wide
// secret; the claim set is {sub, role, exp, iat} and the signature covers all
// of it.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quickcart/product-catalog/internal/core/domain"
)

// DefaultTTL applies when no explicit lifetime is requested.
const DefaultTTL = 15 * time.Minute

// ErrInvalidToken is returned by Decode for every rejected token, whatever
// the cause. The concrete failure stays wrapped underneath so it can be
// logged, but callers must not branch on it when building a response.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload embedded in an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Config carries the immutable settings for a Codec. Secret is required;
// DefaultTTL falls back to the package default when non-positive. Now
// overrides the clock and exists for tests.
type Config struct {
	Secret     []byte
	DefaultTTL time.Duration
	Now        func() time.Time
}

// Codec signs and verifies access tokens. The zero value is unusable;
// construct with NewCodec. A Codec is safe for concurrent use.
type Codec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret must not be empty")
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: cfg.Secret, defaultTTL: ttl, now: now}, nil
}

// Encode signs a token for subject carrying the given role. A non-positive
// ttl falls back to the codec default; callers that want to reject bad TTLs
// must do so before reaching the codec.
func (c *Codec) Encode(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token: subject must not be empty")
	}
	if role == "" {
		return "", time.Time{}, errors.New("token: role must not be empty")
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	issuedAt := c.now().UTC()
	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry of raw and returns its claims.
// The signing algorithm is pinned to HS256; tokens signed any other way are
// rejected even when the signature would otherwise verify.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
