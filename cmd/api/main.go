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

	"github.com/courtside/platform/internal/app"
	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/infra"
	"github.com/courtside/platform/internal/repository"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

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
		return fmt.Errorf("validate config: %w", err)
	}

	// Run migrations
	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	// Connect to Redis (optional; availability cache is disabled when absent)
	redisClient, err := infra.NewRedisClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Parse JWT expiry durations
	userExpiry, err := time.ParseDuration(cfg.JWTUserExpiry)
	if err != nil {
		return fmt.Errorf("parse user JWT expiry: %w", err)
	}
	adminExpiry, err := time.ParseDuration(cfg.JWTAdminExpiry)
	if err != nil {
		return fmt.Errorf("parse admin JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, userExpiry, adminExpiry)

	cacheTTL, err := time.ParseDuration(cfg.AvailabilityCacheTTL)
	if err != nil {
		return fmt.Errorf("parse availability cache TTL: %w", err)
	}

	// Outbox poller: drains booking_outbox into Kafka
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	poller := infra.NewOutboxPoller(pool, repository.NewOutboxRepository(), producer, logger)
	poller.Start(ctx)

	// Router
	r := app.NewRouter(app.RouterDeps{
		Pool:                 pool,
		JWTMgr:               jwtMgr,
		Logger:               logger,
		Redis:                redisClient,
		AvailabilityCacheTTL: cacheTTL,
		MatchDurationMinutes: cfg.MatchDurationMinutes,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
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
