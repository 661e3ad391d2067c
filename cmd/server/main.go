// Package main is the entry point for the larder API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"larder/internal/domain/auth"
	"larder/internal/domain/availability"
	"larder/internal/domain/replenish"
	"larder/internal/domain/shoppinglist"
	v1 "larder/internal/infrastructure/http/v1"
	"larder/internal/infrastructure/storage/postgres"
	"larder/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting larder server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if getEnv("AUTO_MIGRATE", "true") == "true" {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		log.Info("migrations applied")
	}

	// --- Repositories ---
	productRepo := postgres.NewProductRepo(pool)
	inventoryRepo := postgres.NewInventoryRepo(pool)
	recipeRepo := postgres.NewRecipeRepo(pool)
	consumptionRepo := postgres.NewConsumptionRepo(pool)
	shoppingListRepo := postgres.NewShoppingListRepo(pool)

	generationLog, err := postgres.NewGenerationLog(pool)
	if err != nil {
		log.Fatalw("failed to initialize generation log", "error", err)
	}

	// --- Domain services ---
	ranker := availability.NewRanker(availability.RankerConfig{
		Catalog:   recipeRepo,
		Inventory: inventoryRepo,
		PageSize:  getEnvInt("RANK_PAGE_SIZE", 100),
		Workers:   getEnvInt("RANK_WORKERS", 4),
	})
	replenishService := replenish.NewService(inventoryRepo, productRepo, consumptionRepo)
	shoppingListService := shoppinglist.NewService(
		inventoryRepo, productRepo, recipeRepo, consumptionRepo,
		shoppingListRepo, generationLog,
	)

	// --- JWT ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:                pool,
		Logger:              log,
		JWTValidator:        jwtService,
		Ranker:              ranker,
		ReplenishService:    replenishService,
		ShoppingListService: shoppingListService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
