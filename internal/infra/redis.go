package infra

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects a go-redis client from a redis:// URL. The client
// backs the availability cache; a nil return with no error means caching is
// disabled.
func NewRedisClient(ctx context.Context, url string, logger *slog.Logger) (*redis.Client, error) {
	if url == "" {
		logger.Info("redis disabled, availability cache off")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connected", "addr", opts.Addr)
	return client, nil
}
