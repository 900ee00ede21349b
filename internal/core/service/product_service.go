package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/ports"
)

// ProductService implements catalog CRUD. Name uniqueness is checked here
// before every write; the repository's unique index backs it up against
// concurrent writers.
type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if err := s.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns every catalog record. An empty catalog is not an error; the
// result is an empty slice.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != existing.Name {
		if err := s.ensureNameFree(ctx, input.Name, existing.ID); err != nil {
			return nil, err
		}
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", updated.ID).Str("name", updated.Name).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// ensureNameFree fails with ErrProductExists when another record (not
// excludeID) already holds name.
func (s *ProductService) ensureNameFree(ctx context.Context, name, excludeID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case err == nil:
		if existing.ID != excludeID {
			return domain.ErrProductExists
		}
		return nil
	case errors.Is(err, domain.ErrProductNotFound):
		return nil
	default:
		return err
	}
}
