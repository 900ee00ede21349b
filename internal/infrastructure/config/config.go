package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV,  default=development"`

	// JWTSecret may be empty here so that commands that never mint or verify
	// tokens (the seeder) can load configuration without it. The token codec
	// rejects an empty secret at construction.
	JWTSecret string `env:"JWT_SECRET"`

	LogLevel string `env:"LOG_LEVEL, default=info"`

	// TokenTTLMinutes is the default access-token lifetime applied when a
	// request does not ask for one.
	TokenTTLMinutes int `env:"TOKEN_TTL_MINUTES, default=15"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=product_catalog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	// TokensPerMinute caps issuance requests per caller per minute.
	TokensPerMinute int `env:"TOKEN_RATE_LIMIT, default=30"`
}

// TokenTTL returns the default token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
