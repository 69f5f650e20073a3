// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"placement-analytics/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// Pool defaults used when the redis section leaves them unset.
const (
	defaultRedisPoolSize    = 10
	defaultRedisDialTimeout = 5 * time.Second
	defaultRedisIOTimeout   = 3 * time.Second
)

// RedisClient wraps the client behind the report cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a pooled client. Connections are opened on first use, so
// call Ping to verify the server is reachable.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultRedisPoolSize
	}
	dialTimeout := config.GetDuration(cfg.DialTimeout)
	if dialTimeout <= 0 {
		dialTimeout = defaultRedisDialTimeout
	}

	return &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  defaultRedisIOTimeout,
		WriteTimeout: defaultRedisIOTimeout,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 5,
	})}
}

func (c *RedisClient) Name() string { return "redis" }

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
