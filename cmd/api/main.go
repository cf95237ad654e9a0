package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anduber-forms-backend/config"
	_ "anduber-forms-backend/docs" // Important for Swagger
	v1 "anduber-forms-backend/internal/delivery/http/v1"
	"anduber-forms-backend/internal/usecase"
	"anduber-forms-backend/pkg/email"
	"anduber-forms-backend/pkg/logger"
	"anduber-forms-backend/pkg/ratelimit"
	"anduber-forms-backend/pkg/redis"
	"anduber-forms-backend/pkg/retry"
	"anduber-forms-backend/pkg/security"
	"anduber-forms-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           AnduBer Form Intake API
// @version         1.0
// @description     Contact and join form intake for the AnduBer site.
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting form intake gateway", "port", cfg.Port)

	secLogger := security.NewSecurityLogger("anduber-forms-backend", security.Environment())
	defer secLogger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup Rate Limit Store
	store, redisPing, closeStore := setupRateLimitStore(ctx, cfg)
	defer closeStore()

	limits := ratelimit.Config{Limit: cfg.RateLimitMax, Window: cfg.RateLimitWindow}
	contactLimiter, err := ratelimit.NewLimiter(store, limits)
	if err != nil {
		logger.Log.Error("Invalid rate limit config", "error", err)
		os.Exit(1)
	}
	joinLimiter, err := ratelimit.NewLimiter(store, limits)
	if err != nil {
		logger.Log.Error("Invalid rate limit config", "error", err)
		os.Exit(1)
	}

	// 4. Setup Email Service
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.EmailMaxAttempts
	policy.BaseDelay = cfg.EmailRetryBaseDelay
	dispatcher := email.NewDispatcher(email.NewProvider(cfg), email.DispatcherConfig{
		Policy:             policy,
		AttemptTimeout:     cfg.EmailSendTimeout,
		BreakerMaxFailures: cfg.EmailBreakerMaxFailures,
		BreakerTimeout:     cfg.EmailBreakerTimeout,
	})
	if !dispatcher.IsConfigured() {
		logger.Log.Warn("Email service not configured - form submissions will be answered with 503")
	}
	composer := email.NewComposer(cfg.EmailFrom, cfg.EmailTo)

	// 5. Setup UseCases
	validate := validation.New()
	contactUC := usecase.NewContactUsecase(validate, composer, dispatcher, secLogger)
	joinUC := usecase.NewJoinUsecase(validation.NewSchemaValidator(validate), composer, dispatcher, secLogger)
	healthUC := usecase.NewHealthUsecase(dispatcher.ProviderName(), dispatcher.IsConfigured(), redisPing)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Config:         cfg,
		ContactUC:      contactUC,
		JoinUC:         joinUC,
		HealthUC:       healthUC,
		ContactLimiter: contactLimiter,
		JoinLimiter:    joinLimiter,
		SecLogger:      secLogger,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// setupRateLimitStore prefers Redis so counters survive restarts and are
// shared between instances. Without it each instance counts on its own.
func setupRateLimitStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, usecase.Pinger, func()) {
	if cfg.UpstashRedisURL != "" {
		client, err := redis.NewClient(ctx, redis.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err == nil {
			logger.Log.Info("Rate limiting backed by Redis")
			ping := func(ctx context.Context) error { return redis.HealthCheck(ctx, client) }
			return ratelimit.NewRedisStore(client, ""), ping, func() { client.Close() }
		}
		logger.Log.Warn("Redis unavailable, falling back to in-memory rate limiting", "error", err)
	}

	store := ratelimit.NewMemoryStore(cfg.RateLimitSweepThreshold)
	ratelimit.StartSweeper(ctx, store, cfg.RateLimitSweepInterval, func(removed int, err error) {
		if err != nil {
			logger.Log.Warn("Rate limit sweep failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Log.Debug("Rate limit entries swept", "removed", removed)
		}
	})
	return store, nil, func() {}
}
