package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"wavecrate/config"
)

// ConnectRedis creates the cache client and verifies the connection.
// Returns nil without error when caching is disabled.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	if !cfg.CacheEnabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
