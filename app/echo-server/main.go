package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"denimatch/app/echo-server/router"
	"denimatch/business/account"
	"denimatch/business/recommend"
	"denimatch/business/taste"
	"denimatch/domain"
	"denimatch/internal/middleware"
	openaiRepo "denimatch/internal/repository/openai"
	psqlRepo "denimatch/internal/repository/postgres"
	redisRepo "denimatch/internal/repository/redis"
	"denimatch/internal/rest"
	"denimatch/pkg/config"
	"denimatch/pkg/database"
	redisdb "denimatch/pkg/database/redis"
	"denimatch/pkg/logger"
	"denimatch/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Denimatch", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.AutoMigrate(
		&domain.Profile{},
		&domain.TasteEvent{},
		&domain.TasteVectorSnapshot{},
		&domain.RecommendationRun{},
		&domain.RecommendationFeedback{},
		&domain.Look{},
		&domain.Vibe{},
	); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	metrics.Init()

	// Init validate
	validate := validator.New()

	// Init repo
	profileRepo := psqlRepo.NewProfileRepository(db)
	eventRepo := psqlRepo.NewTasteEventRepository(db)
	snapshotRepo := psqlRepo.NewTasteSnapshotRepository(db)
	runRepo := psqlRepo.NewRunRepository(db)
	feedbackRepo := psqlRepo.NewFeedbackRepository(db)
	lookRepo := psqlRepo.NewLookRepository(db)
	vibeRepo := psqlRepo.NewVibeRepository(db)
	summaryCache := redisRepo.NewSummaryCache(redisClient)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// The OpenAI collaborator is optional: without it recommendations degrade
	// to the stub catalog and taste embeddings stay stale.
	var generator recommend.Generator
	var embedder taste.Embedder
	var lookEmbedder rest.TextEmbedder
	genRepo, err := openaiRepo.NewGenerationRepository(openaiRepo.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
	})
	if err != nil {
		logger.Warn("OpenAI client unavailable, running degraded", "error", err)
	} else {
		generator = genRepo
		embedder = genRepo
		lookEmbedder = genRepo
	}

	// Init service
	tasteService := taste.NewService(
		profileRepo, eventRepo, snapshotRepo, runRepo, feedbackRepo,
		summaryCache, embedder,
		taste.Defaults{
			BaseDecay: cfg.Taste.BaseDecay,
			ClampMin:  cfg.Taste.ClampMin,
			ClampMax:  cfg.Taste.ClampMax,
		},
	)
	recommendService := recommend.NewService(lookRepo, vibeRepo, runRepo, profileRepo, tasteService, generator)
	accountService := account.NewService(profileRepo, tokenRepo, validate, account.TasteDefaults{
		BaseDecay: cfg.Taste.BaseDecay,
		ClampMin:  cfg.Taste.ClampMin,
		ClampMax:  cfg.Taste.ClampMax,
	})

	// Init handler
	accountHandler := rest.NewAccountHandler(accountService)
	recommendHandler := rest.NewRecommendHandler(recommendService, tasteService, runRepo)
	tasteHandler := rest.NewTasteHandler(tasteService)
	lookHandler := rest.NewLookAdminHandler(lookRepo, lookEmbedder)
	vibeHandler := rest.NewVibeAdminHandler(vibeRepo)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(accountService)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAccountRoutes(api, accountHandler, authRequired)
	router.SetupRecommendRoutes(api, recommendHandler, authRequired)
	router.SetupTasteRoutes(api, tasteHandler, authRequired)
	router.SetupVibeRoutes(api, vibeHandler, authRequired, adminOnly)
	router.SetupLookAdminRoutes(api, lookHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	logger.Info("Server stopped")
}
