package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to Redis when REDIS_URL is configured. Returns nil
// when unset or unreachable; callers must treat a nil client as "no Redis"
// and fall back to in-process behavior.
func NewRedisClient(cfg *Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Info("redis not configured, using in-process fallbacks")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid REDIS_URL, using in-process fallbacks", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable, using in-process fallbacks", "error", err)
		return nil
	}

	logger.Info("redis connected", "addr", opts.Addr)
	return client
}
