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

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intelligence/internal/app"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	httpmw "github.com/johnquangdev/meeting-intelligence/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	"github.com/johnquangdev/meeting-intelligence/pkg/jwt"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
	pkgvalidator "github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

// @title           Meeting Intelligence API
// @version         1.0
// @description     Ingests meeting transcripts, extracts structured intelligence and resolves contacts and companies

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Log, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize dependencies
	logger.Info("🔧 Initializing dependencies...")
	ctx := context.Background()

	svc, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer svc.Close()

	// Audio storage is optional; without it only /ingest/audio is unavailable
	logger.Info("🪣 Connecting to object storage...", zap.String("endpoint", cfg.Storage.Endpoint))
	var store storage.ObjectStore
	if minioClient, err := svc.ObjectStore(ctx); err != nil {
		logger.Warn("⚠️  Object storage unavailable, audio uploads disabled", zap.Error(err))
	} else {
		store = minioClient
	}

	// Initialize JWT manager
	logger.Info("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)

	// Initialize handlers
	logger.Info("🚀 Initializing handlers...")
	ingestHandler := handler.NewIngestHandler(svc.Ingest, store, cfg.Ingest.MaxAudioBytes, logger)
	handlers := handler.Handlers{
		Ingest: ingestHandler,
		Review: handler.NewReviewHandler(svc.Suggestions, logger),
		Entity: handler.NewEntityHandler(svc.Corpus, svc.Merger, svc.Scans, logger),
	}
	if cfg.Ingest.WebhookSecret != "" {
		handlers.Webhook = handler.NewWebhookHandler(ingestHandler, cfg.Ingest.WebhookSecret, logger)
	} else {
		logger.Warn("⚠️  INGEST_WEBHOOK_SECRET not set, webhook ingestion disabled")
	}

	// Setup router with handlers
	logger.Info("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, httpmw.EchoAuth(jwtManager), handlers, svc.Ping)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}
