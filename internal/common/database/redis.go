// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"hr-intake/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("redis address not configured")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// IncrWindow counts one hit against key for a fixed window. The first hit in
// a window starts its expiry. It returns the count so far and the time left.
func IncrWindow(ctx context.Context, rdb redis.Cmdable, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, window, fmt.Errorf("expire %s: %w", key, err)
		}
		return count, window, nil
	}

	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		return count, 0, fmt.Errorf("ttl %s: %w", key, err)
	}
	if ttl < 0 {
		// key lost its expiry; restart the window so it cannot block forever
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, window, fmt.Errorf("expire %s: %w", key, err)
		}
		ttl = window
	}
	return count, ttl, nil
}
