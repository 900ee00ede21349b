package handler

import (
	"time"

	"github.com/quickcart/product-catalog/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price"       validate:"omitempty,gte=0"`
}

type updateProductRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price"       validate:"omitempty,gte=0"`
}

// --- Response types ---

// productResponse is owned by the transport layer so the JSON contract is not
// coupled to internal domain changes.
type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func toProductListResponse(products []domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}
