package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ogonek-app/backend/internal/config"
)

// NewRedis dials the Redis instance that backs sessions and CSRF tokens.
// A failed ping here is fatal: the server cannot authenticate anyone
// without it, so there is no point starting degraded.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
