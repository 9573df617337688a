package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/config"
)

// Redis holds the client backing the public listing cache.
type Redis struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedis builds the client. An unreachable server is logged, not fatal:
// the listing cache degrades to misses until Redis comes back.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable; listing cache will miss", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Duration("cache_ttl", cfg.CacheTTL()))
	}

	return &Redis{Client: client, ttl: cfg.CacheTTL()}
}

// ListingCache returns a cache for public event listings under prefix.
func (r *Redis) ListingCache(prefix string) *cache.RedisListingCache {
	return cache.NewRedisListingCache(r.Client, prefix, r.ttl)
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping reports Redis reachability for the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
