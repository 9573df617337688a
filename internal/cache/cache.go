// Package cache holds the read-through cache for unauthenticated event listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListingCache stores JSON values under keys that are invalidated together.
type ListingCache interface {
	// Get decodes the cached value into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every cached value.
	Invalidate(ctx context.Context) error
}

// RedisListingCache namespaces keys with a generation counter; bumping the
// counter makes every older key unreachable until it expires.
type RedisListingCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisListingCache builds a cache over an existing client.
func NewRedisListingCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisListingCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisListingCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisListingCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	full, err := c.key(ctx, key)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, full).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, key string, value any) error {
	full, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, full, raw, c.ttl).Err()
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

func (c *RedisListingCache) key(ctx context.Context, key string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, key), nil
}

func (c *RedisListingCache) generationKey() string {
	return c.prefix + ":generation"
}

// Noop never stores anything. Used when Redis is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Invalidate(context.Context) error               { return nil }
