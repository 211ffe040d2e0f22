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

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "test:"), mr
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	type dish struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
	}
	require.NoError(t, c.Set(ctx, "dish", dish{Name: "Lassi", Price: 80}, time.Minute))
	assert.True(t, mr.Exists("test:dish"))
	assert.Greater(t, mr.TTL("test:dish"), time.Duration(0))

	var got dish
	found, err := c.Get(ctx, "dish", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Lassi", got.Name)

	require.NoError(t, c.Delete(ctx, "dish"))
	found, err = c.Get(ctx, "dish", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheMissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t)
	var v string
	found, err := c.Get(context.Background(), "nothing", &v)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var v string
	found, err := c.Get(ctx, "short", &v)
	require.NoError(t, err)
	assert.False(t, found)
}
