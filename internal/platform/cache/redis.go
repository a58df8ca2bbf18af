package cache

import (
	"context"
	"fmt"
	"tle_tracker/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the client used by the problem metadata cache and verifies it answers PING.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}
