package ports

import (
	"context"

	"github.com/quickcart/product-catalog/internal/core/domain"
)

// CreateProductInput carries the fields for a new catalog record.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
}

// UpdateProductInput carries a full replacement of a record's mutable fields.
type UpdateProductInput struct {
	ID          string
	Name        string
	Description string
	Price       float64
}

// ProductService defines use-case operations on the catalog.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
