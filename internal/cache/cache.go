// Package cache provides a small read-through view cache on Redis. Cache
// failures degrade to a store read; they are logged, never surfaced.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ViewCache caches JSON-serialized values of one type under string keys.
type ViewCache[T any] struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New creates a cache with the given TTL.
func New[T any](client *redis.Client, ttl time.Duration, log zerolog.Logger) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl, log: log}
}

// Get returns the cached value and whether it was present.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var v T
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt, dropping")
		c.Delete(ctx, key)
		return v, false
	}
	return v, true
}

// Set stores the value under the cache TTL.
func (c *ViewCache[T]) Set(ctx context.Context, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Delete evicts the key.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}
