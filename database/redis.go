package database

import (
	"context"
	"time"

	"github.com/lshigami/Marmoset/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient connects to the Redis instance backing the leaderboard cache.
// The cache is optional: when REDIS_ADDR is empty a nil client is returned and
// callers fall through to postgres.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, leaderboard cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis ping failed, leaderboard cache degraded")
	} else {
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	}
	return client
}
