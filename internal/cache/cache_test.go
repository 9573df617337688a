package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisListingCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisListingCache(client, "test:events", time.Minute), srv
}

func TestRedisListingCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	var got []string
	hit, err := c.Get(ctx, "public:all:latest", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "public:all:latest", []string{"e1", "e2"}))
	hit, err = c.Get(ctx, "public:all:latest", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"e1", "e2"}, got)
}

func TestRedisListingCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", 1))
	require.NoError(t, c.Invalidate(ctx))

	var got int
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisListingCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", "v"))
	srv.FastForward(2 * time.Minute)

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNoopCache(t *testing.T) {
	var c ListingCache = Noop{}
	hit, err := c.Get(context.Background(), "k", nil)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Set(context.Background(), "k", 1))
	assert.NoError(t, c.Invalidate(context.Background()))
}
