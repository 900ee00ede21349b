package ports

import (
	"context"

	"github.com/quickcart/product-catalog/internal/core/domain"
)

// UserRepository is the read interface over the user directory. The service
// never mutates users; Create exists for the provisioning seeder only.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
