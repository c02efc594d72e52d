package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	httpmetrics "pricewise/app/echo-server/metrics"
	"pricewise/app/echo-server/router"
	"pricewise/business/pricing"
	"pricewise/domain"
	"pricewise/internal/middleware"
	"pricewise/internal/repository/modelfile"
	psqlRepo "pricewise/internal/repository/postgres"
	redisRepo "pricewise/internal/repository/redis"
	"pricewise/internal/rest"
	"pricewise/pkg/config"
	"pricewise/pkg/database/postgres"
	"pricewise/pkg/database/redis"
	"pricewise/pkg/logger"
	"pricewise/pkg/metrics"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting PriceWise", "version", cfg.App.Version)

	metrics.Init()
	httpmetrics.Init()

	// The model is loaded once. When it fails the form still serves, with
	// prediction disabled for the life of the process.
	var predictor pricing.DiscountPredictor
	modelInfo := rest.ModelInfo{Path: cfg.Model.Path}
	modelNotice := ""

	model, err := modelfile.Load(cfg.Model.Path)
	if err != nil {
		var loadErr *modelfile.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("Failed to load model, prediction disabled", "path", loadErr.Path, "error", loadErr.Err)
			modelNotice = loadErr.Notice()
		} else {
			logger.Error("Failed to load model, prediction disabled", err)
		}
	} else {
		predictor = pricing.NewInvoker(model)
		modelInfo.Name = model.Name()
		modelInfo.Version = model.Version()
		modelInfo.Kind = model.Kind()
		logger.Info("Model loaded", "name", model.Name(), "version", model.Version(), "kind", model.Kind())
	}

	var cache pricing.DiscountCache
	if cfg.Redis.Enabled && model != nil {
		client, err := redis.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redis.CloseRedisClient(client)

		cache = redisRepo.NewPredictionCache(client, model.Version(), cfg.Redis.CacheTTL)
		logger.Info("Prediction cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	}

	var logRepo pricing.PredictionLogRepository
	if cfg.PredictionLog.Enabled {
		db, err := postgres.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		if err := db.AutoMigrate(&domain.PredictionLog{}); err != nil {
			logger.Fatal("Failed to migrate prediction log", "error", err)
		}

		logRepo = psqlRepo.NewPredictionLogRepository(db)
		logger.Info("Database connected successfully")
	}

	// Init service
	pricingService := pricing.NewPricingService(predictor, cache, logRepo, pricing.DefaultConfig())

	// Init handler
	pageHandler := rest.NewPageHandler(pricingService, modelNotice, cfg.Server.RequestTimeout)
	discountHandler := rest.NewDiscountHandler(pricingService, cfg.Server.RequestTimeout)
	healthHandler := rest.NewHealthHandler(pricingService, cfg.App.Name, cfg.App.Version, modelInfo)

	renderer, err := rest.NewTemplateRenderer()
	if err != nil {
		logger.Fatal("Failed to load page templates", "error", err)
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			logger.Info("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.BodyLimit("10M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupPageRoutes(e, pageHandler)
	router.SetupDiscountRoutes(api, discountHandler)
	router.SetupOpsRoutes(e, healthHandler)
	if logRepo != nil {
		router.SetupHistoryRoutes(api, rest.NewHistoryHandler(pricingService), cfg.JWT.SecretKey)
	}

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

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
