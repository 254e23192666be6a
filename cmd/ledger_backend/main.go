package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/services"
	"github.com/SscSPs/fintech_ledger/internal/events"
	"github.com/SscSPs/fintech_ledger/internal/handlers"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
	"github.com/SscSPs/fintech_ledger/internal/platform/storage"
	"github.com/SscSPs/fintech_ledger/internal/utils/validation"
	pkgredis "github.com/SscSPs/fintech_ledger/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Ledger Backend API
// @version 1.0
// @description Transaction ledger with consistent account balances, reports and anomaly scans.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := repos.Close(); cerr != nil {
			logger.Error("Error closing store", slog.String("error", cerr.Error()))
		}
	}()
	logger.Info("Store ready", slog.String("driver", cfg.StoreDriver))

	// Redis is only dialled when a component needs it
	var rdb redis.UniversalClient
	if cfg.EventsDriver == config.EventsRedis || cfg.RateLimitStore == "redis" {
		client, err := pkgredis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer client.Close()
		rdb = client
	}

	publisher, err := events.NewPublisher(cfg, rdb)
	if err != nil {
		logger.Error("Failed to create event publisher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	if err := validation.RegisterWithGin(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var limiterStore redis.UniversalClient
	if cfg.RateLimitStore == "redis" {
		limiterStore = rdb
	}
	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit, limiterStore)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	verifiers := middleware.ChainVerifier{middleware.NewJWTVerifier(cfg.JWTSecret)}
	if cfg.GoogleClientID != "" {
		verifiers = append(verifiers, middleware.NewGoogleIDTokenVerifier(cfg.GoogleClientID))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, verifiers, middleware.RateLimit(rateLimiter))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}
