// Package cache wraps a redis client used as a short-lived lookaside cache
// for enrichment lookups.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when the requested key is absent, so callers can
// tell a miss apart from a redis failure.
var ErrCacheMiss = errors.New("cache miss")

// RedisCache wraps *redis.Client with the Set/Get/Invalidate surface the
// enrichment steps need.
type RedisCache struct {
	client *redis.Client
}

// New creates a RedisCache with the given connection options.
func New(opts *redis.Options) *RedisCache {
	return &RedisCache{client: redis.NewClient(opts)}
}

// Set stores value under key with the given expiration.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get returns the value stored under key, or ErrCacheMiss when the key is
// absent.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Invalidate removes key from the cache.
func (r *RedisCache) Invalidate(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
