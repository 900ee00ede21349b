package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quickcart/product-catalog/internal/api/handler"
	"github.com/quickcart/product-catalog/internal/api/middleware"
	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/ports"
	"github.com/quickcart/product-catalog/internal/core/service"
	"github.com/quickcart/product-catalog/internal/core/token"
	"github.com/quickcart/product-catalog/internal/infrastructure/config"
	mongostore "github.com/quickcart/product-catalog/internal/infrastructure/db/mongo"
	redisstore "github.com/quickcart/product-catalog/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered against the
// concrete MongoDB and Redis backends.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	codec, err := token.NewCodec(token.Config{
		Secret:     []byte(cfg.JWTSecret),
		DefaultTTL: cfg.TokenTTL(),
	})
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	userRepo := mongostore.NewUserRepository(db)
	productRepo := mongostore.NewProductRepository(db)
	limiter := redisstore.NewIssueLimiter(rdb, cfg.RateLimit.TokensPerMinute)

	e := newRouter(routerDeps{
		Codec:          codec,
		Users:          userRepo,
		TokenService:   service.NewTokenService(userRepo, codec, limiter, log),
		ProductService: service.NewProductService(productRepo, log),
		Logger:         log,
	})

	readiness := handler.NewReadinessHandler(db, rdb)
	e.GET("/health/ready", readiness.Readiness)

	return e, nil
}

// routerDeps carries the wired collaborators for route registration, kept
// separate from NewRouter so tests can inject stubs.
type routerDeps struct {
	Codec          *token.Codec
	Users          ports.UserRepository
	TokenService   ports.TokenService
	ProductService ports.ProductService
	Logger         zerolog.Logger
}

func newRouter(deps routerDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	auth := middleware.Auth(deps.Codec, deps.Users, deps.Logger)
	tokenHandler := handler.NewTokenHandler(deps.TokenService)
	productHandler := handler.NewProductHandler(deps.ProductService)
	healthHandler := handler.NewHealthHandler()

	// --- Unauthenticated surface ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "running",
			"service": "product-catalog",
		})
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated surface ---
	v1 := e.Group("/v1")

	// Issuance is itself authenticated: the caller presents a valid token
	// and the service applies the delegation rule on top.
	v1.POST("/tokens", tokenHandler.Create, auth)

	products := v1.Group("/products", auth)
	products.POST("", productHandler.Create, middleware.RBAC(domain.RoleAdmin))
	products.GET("", productHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RolePrivileged))
	products.GET("/:id", productHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RolePrivileged))
	products.PUT("/:id", productHandler.Update, middleware.RBAC(domain.RoleAdmin))
	products.DELETE("/:id", productHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	return e
}
