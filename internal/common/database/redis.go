// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"

	"loan-journey-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection backing the journey session store.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis opens a pooled client sized from cfg and verifies the server
// answers PING. Zero sizes and timeouts keep the go-redis defaults.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	ioTimeout := config.GetDuration(cfg.IOTimeout)
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  config.GetDuration(cfg.DialTimeout),
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	c := &RedisClient{Client: rdb}
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// SessionCount counts the stored journey sessions under prefix.
func (c *RedisClient) SessionCount(ctx context.Context, prefix string) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := c.Client.Scan(ctx, cursor, prefix+"*", 200).Result()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
