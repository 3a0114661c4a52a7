package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zarena/platform/internal/app"
	"github.com/zarena/platform/internal/auth"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/infra"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	// Run schema migrations on startup
	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis is optional; nil degrades rate limiting and rate caching to
	// in-process fallbacks.
	redisClient := infra.NewRedisClient(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Parse JWT expiry durations
	playerExpiry, err := time.ParseDuration(cfg.JWTPlayerExpiry)
	if err != nil {
		return fmt.Errorf("parse player JWT expiry: %w", err)
	}
	staffExpiry, err := time.ParseDuration(cfg.JWTStaffExpiry)
	if err != nil {
		return fmt.Errorf("parse staff JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, playerExpiry, staffExpiry)

	// Submission limits from config, falling back to the platform defaults
	// when a value fails to parse.
	limits := policy.DefaultSubmissionLimits()
	if v, err := domain.ParseAmount(cfg.DepositMinPKR); err == nil {
		limits.DepositMinPKR = v
	}
	if v, err := domain.ParseAmount(cfg.WithdrawalMinZC); err == nil {
		limits.WithdrawalMinZC = v
	}

	submitWindow, err := time.ParseDuration(cfg.SubmitRateWindow)
	if err != nil {
		return fmt.Errorf("parse submit rate window: %w", err)
	}

	// Cloudinary uploads are optional; routes are omitted when unconfigured.
	var uploader storage.Uploader
	if cfg.CloudinaryCloudName != "" {
		breaker := guard.NewCircuitBreaker(5, 30*time.Second)
		uploader, err = storage.NewCloudinaryUploader(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, breaker)
		if err != nil {
			return fmt.Errorf("init cloudinary: %w", err)
		}
		logger.Info("media uploads enabled", "cloud_name", cfg.CloudinaryCloudName)
	} else {
		logger.Info("media uploads disabled (cloudinary not configured)")
	}

	// Kafka producer + outbox poller relays events to the broker. When Kafka
	// is disabled the poller still drains the outbox and logs events.
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	poller := infra.NewOutboxPoller(pool, producer, logger)
	go poller.Start(ctx)

	r := app.NewRouter(app.RouterDeps{
		Pool:            pool,
		Redis:           redisClient,
		JWTMgr:          jwtMgr,
		Logger:          logger,
		Uploader:        uploader,
		Limits:          limits,
		Routing:         policy.DefaultPayoutRoutingPolicy(),
		FallbackRatePKR: cfg.FallbackRatePKR,
		SubmitLimit:     cfg.SubmitRateLimit,
		SubmitWindow:    submitWindow,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
