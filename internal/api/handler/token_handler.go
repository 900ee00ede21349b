package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quickcart/product-catalog/internal/api/metrics"
	"github.com/quickcart/product-catalog/internal/core/ports"
)

// TokenHandler handles authenticated token issuance requests.
type TokenHandler struct {
	service ports.TokenService
}

func NewTokenHandler(service ports.TokenService) *TokenHandler {
	return &TokenHandler{service: service}
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	// ExpiresMinutes is optional. When absent the configured default TTL
	// applies; explicit zero or negative values are rejected with 400.
	ExpiresMinutes *int `json:"expires_minutes" validate:"omitempty,gt=0"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Create handles POST /v1/tokens.
//
// @Summary      Issue an access token
// @Tags         tokens
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      tokenRequest  true  "Target username and optional TTL in minutes"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/tokens [post]
func (h *TokenHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var ttl time.Duration
	if req.ExpiresMinutes != nil {
		ttl = time.Duration(*req.ExpiresMinutes) * time.Minute
	}

	issued, err := h.service.Issue(c.Request().Context(), ports.IssueTokenInput{
		Caller:         caller,
		TargetUsername: req.Username,
		TTL:            ttl,
	})
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(issued.Role)).Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: issued.AccessToken,
		TokenType:   issued.TokenType,
		Role:        string(issued.Role),
		ExpiresAt:   issued.ExpiresAt.UTC(),
	})
}
