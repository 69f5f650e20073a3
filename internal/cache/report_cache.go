// Package cache keeps computed report envelopes in Redis.
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"placement-analytics/internal/common/metrics"
	"placement-analytics/internal/models"
)

const keyPrefix = "analytics:report:"

type ReportCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Key is the cache key of one report kind over one scope.
func Key(kind models.ReportKind, scope models.Scope) string {
	return keyPrefix + string(kind) + ":" + scope.CacheKey()
}

// Get returns the cached envelope marked as cached. A miss is not an error.
func (c *ReportCache) Get(ctx context.Context, kind models.ReportKind, scope models.Scope) (*models.ReportEnvelope, bool, error) {
	val, err := c.client.Get(ctx, Key(kind, scope)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var env models.ReportEnvelope
	if err := json.Unmarshal(val, &env); err != nil {
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	env.Cached = true
	metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	return &env, true, nil
}

func (c *ReportCache) Put(ctx context.Context, env *models.ReportEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.client.Set(ctx, Key(env.Kind, env.Scope), data, c.ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("put", "error").Inc()
		return fmt.Errorf("cache put: %w", err)
	}
	metrics.CacheOperations.WithLabelValues("put", "ok").Inc()
	return nil
}

func (c *ReportCache) Invalidate(ctx context.Context, kind models.ReportKind, scope models.Scope) error {
	if err := c.client.Del(ctx, Key(kind, scope)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Purge deletes every cached report and returns how many were removed.
func (c *ReportCache) Purge(ctx context.Context) (int, error) {
	var removed int
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, fmt.Errorf("cache purge: %w", err)
		}
		removed += int(n)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("cache purge: %w", err)
	}
	metrics.CacheOperations.WithLabelValues("purge", "ok").Inc()
	return removed, nil
}
