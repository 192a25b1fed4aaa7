package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oikia/backend-go/internal/api"
	"github.com/oikia/backend-go/internal/config"
	"github.com/oikia/backend-go/internal/database"
	"github.com/oikia/backend-go/internal/database/repository"
	"github.com/oikia/backend-go/internal/database/service"
	"github.com/oikia/backend-go/internal/geocode"
	"github.com/oikia/backend-go/internal/handler"
	"github.com/oikia/backend-go/internal/logger"
	"github.com/oikia/backend-go/internal/middleware"
	"github.com/oikia/backend-go/internal/queue"
	"github.com/oikia/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting catalog backend...",
		"environment", cfg.AppEnv,
	)

	// 3. Connect to Database
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	db := database.GetDatabase()

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	refreshRepo := repository.NewRefreshRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	clientRepo := repository.NewClientRepository(db)
	geoRepo := repository.NewGeoRepository(db)
	intentRepo := repository.NewIntentRepository(db)

	// 5. Initialize Redis Client
	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis for address search cache", "error", err)
		appLogger.Info("💡 Address search will go to the upstream API on every request")
		// Continue without Redis - searches still work uncached
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, tokenRepo, refreshRepo, sessionRepo, clientRepo, cfg, appLogger)
	publisher := queue.NewPublisher(cfg.RabbitMQURL, appLogger)
	intentService := service.NewIntentService(intentRepo, publisher, appLogger)
	searcher := geocode.NewSearcher(cfg, redisClient, appLogger)

	// 7. Initialize Handlers & Middleware
	authHandler := handler.NewAuthHandler(authService, tokenRepo, refreshRepo, sessionRepo, appLogger)
	geoHandler := handler.NewGeoHandler(geoRepo, searcher, appLogger)
	intentHandler := handler.NewIntentHandler(intentService, appLogger)
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	// 8. Start background consumer on the worker pool
	pool := worker.NewPool(appLogger)
	consumer := queue.NewConsumer(cfg.RabbitMQURL, intentRepo, appLogger)
	pool.Submit("intent-consumer", func(ctx context.Context) {
		consumer.Run(ctx)
	})
	defer pool.Shutdown(10 * time.Second)

	// 9. Router
	r := api.SetupRouter(authHandler, geoHandler, intentHandler, authMiddleware, appLogger)

	// 10. Start HTTP Server
	addr := fmt.Sprintf(":%s", cfg.ApiServicePort)
	appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", addr)
	if err := r.Run(addr); err != nil {
		appLogger.Error("❌ HTTP Server failed to start", "error", err)
		os.Exit(1)
	}
}
