// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"larder/internal/domain/availability"
	"larder/internal/domain/replenish"
	"larder/internal/domain/shoppinglist"
	"larder/internal/infrastructure/http/v1/handlers"
	"larder/internal/infrastructure/http/v1/middleware"
	"larder/internal/infrastructure/storage/postgres"
	"larder/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	Ranker              *availability.Ranker
	ReplenishService    *replenish.Service
	ShoppingListService *shoppinglist.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	// Gzip wraps ErrorHandler so the error JSON is rendered before the
	// compressed stream is closed.
	router.Use(middleware.Gzip())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	matchHandler := handlers.NewMatchHandler(base, cfg.Ranker)
	replenishmentHandler := handlers.NewReplenishmentHandler(base, cfg.ReplenishService)
	shoppingListHandler := handlers.NewShoppingListHandler(base, cfg.ShoppingListService)

	// API v1, household-scoped behind auth
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	{
		api.GET("/recipes/matches", matchHandler.List)

		api.GET("/replenishment/low-stock", replenishmentHandler.LowStock)

		api.GET("/shopping-list", shoppingListHandler.List)
		api.POST("/shopping-list/generate", shoppingListHandler.Generate)
		api.POST("/shopping-list/items", shoppingListHandler.Add)
	}

	return router
}
