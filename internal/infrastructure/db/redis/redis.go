// Package redis provides the shared Redis client backing token-issuance rate
// limiting and the readiness probe. Nothing else in the service touches
// Redis; the catalog and user directory live in MongoDB.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultConnectTimeout = 5 * time.Second

// Config captures the settings for the catalog's Redis connection.
type Config struct {
	Addr string
	DB   int
	// ConnectTimeout bounds the startup ping. Defaults to 5s when zero.
	ConnectTimeout time.Duration
}

// Connect initialises the shared client and validates connectivity with a
// ping before any limiter is built on top of it.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
