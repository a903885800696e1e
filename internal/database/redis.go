package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/thewell/wellcal/internal/config"
)

// OpenRedis connects to the configured Redis server and verifies the connection.
func OpenRedis(cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
