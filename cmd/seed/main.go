// Command seed provisions the well-known test accounts into the user
// directory: admin (admin), alice (privileged), and bob (nonadmin). Existing
// users are left untouched. Passwords are bcrypt-hashed before storage even
// though the service never authenticates with them.
package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/ports"
	"github.com/quickcart/product-catalog/internal/infrastructure/config"
	mongostore "github.com/quickcart/product-catalog/internal/infrastructure/db/mongo"
	"github.com/quickcart/product-catalog/pkg/logger"
)

const defaultPassword = "test123"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx := context.Background()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	seedUsers(ctx, mongostore.NewUserRepository(db))
}

func seedUsers(ctx context.Context, repo ports.UserRepository) {
	log := logger.Get()

	seeds := []struct {
		username string
		role     domain.Role
	}{
		{"admin", domain.RoleAdmin},
		{"alice", domain.RolePrivileged},
		{"bob", domain.RoleNonAdmin},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("password hashing failed")
		}

		now := time.Now().UTC()
		_, err = repo.Create(ctx, &domain.User{
			Username:     s.username,
			Role:         s.role,
			PasswordHash: string(hash),
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		switch {
		case errors.Is(err, domain.ErrUserExists):
			log.Info().Str("username", s.username).Msg("user already exists, skipping")
		case err != nil:
			log.Fatal().Err(err).Str("username", s.username).Msg("seeding failed")
		default:
			log.Info().Str("username", s.username).Str("role", string(s.role)).Msg("user created")
		}
	}
}
