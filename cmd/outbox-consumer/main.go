package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside/platform/internal/email"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/infra"
	"github.com/courtside/platform/internal/repository"
	"github.com/joho/godotenv"
)

// notifyTopics are the booking events that produce an email.
var notifyTopics = []string{
	infra.TopicPrefix + "reservation.created",
	infra.TopicPrefix + "reservation.confirmed",
	infra.TopicPrefix + "reservation.canceled",
	infra.TopicPrefix + "match.canceled",
	infra.TopicPrefix + "match.expired",
	infra.TopicPrefix + "match.uncanceled",
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("outbox-consumer connected to postgres")

	var sender email.Sender
	if cfg.EmailEnabled {
		ses, err := email.NewSESClient(ctx, cfg.EmailSender, logger)
		if err != nil {
			return fmt.Errorf("init ses: %w", err)
		}
		sender = ses
	} else {
		sender = &email.NoopSender{Logger: logger}
	}

	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, notifyTopics, "courtside-notifier", cfg.KafkaEnabled, logger)
	if !consumer.Enabled() {
		return fmt.Errorf("kafka is disabled; set KAFKA_ENABLED=true to run the consumer")
	}
	defer consumer.Close()

	notifier := email.NewNotifier(
		pool,
		repository.NewUserRepository(),
		sender,
		guard.NewCircuitBreaker(5, 30*time.Second),
		logger,
	)

	logger.Info("outbox-consumer starting", "topics", notifyTopics)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("outbox-consumer shutting down")
				return nil
			}
			logger.Error("read message", "error", err)
			continue
		}

		if err := notifier.Handle(ctx, msg.Value); err != nil {
			logger.Error("handle event", "topic", msg.Topic, "error", err)
		}
	}
}
