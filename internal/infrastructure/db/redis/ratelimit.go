package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	limitWindow       = time.Minute
	defaultIssueLimit = 30
)

// IssueLimiter caps token issuance per caller over a fixed window, backed by
// Redis. Key format: issue_limit:<username>, expiring after the window.
type IssueLimiter struct {
	client *redis.Client
	max    int
}

// NewIssueLimiter creates an IssueLimiter allowing max issuances per caller
// per minute. Non-positive max falls back to the default.
func NewIssueLimiter(client *redis.Client, max int) *IssueLimiter {
	if max <= 0 {
		max = defaultIssueLimit
	}
	return &IssueLimiter{client: client, max: max}
}

// Allow reports whether username may mint another token in the current window.
func (l *IssueLimiter) Allow(ctx context.Context, username string) (bool, error) {
	key := l.key(username)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("issue limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, limitWindow).Err(); err != nil {
			return false, fmt.Errorf("issue limit expire: %w", err)
		}
	}
	return n <= int64(l.max), nil
}

func (l *IssueLimiter) key(username string) string {
	return "issue_limit:" + username
}
