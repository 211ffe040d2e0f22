package backend

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royal_site/internal/cache"
	"royal_site/internal/domain"
)

func newCachedMenu(t *testing.T, fb *fakeBackend) (*CachedMenu, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCachedMenu(fb.client(), cache.New(rdb, "royal:"), time.Minute), mr
}

func countGets(calls []recorded) int {
	n := 0
	for _, c := range calls {
		if c.Method == "GET" && c.Path == "/menu" {
			n++
		}
	}
	return n
}

func TestCachedMenuServesFromCache(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[{"_id":"m1","name":"Biryani","price":350}]}`)
	menu, mr := newCachedMenu(t, fb)
	ctx := context.Background()

	first, err := menu.ListMenu(ctx)
	require.NoError(t, err)
	second, err := menu.ListMenu(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, countGets(fb.calls()))
	assert.True(t, mr.Exists("royal:menu:all"))

	item, err := menu.GetMenuItem(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Biryani", item.Name)
	assert.Equal(t, 1, countGets(fb.calls()))
}

func TestCachedMenuInvalidatesOnWrite(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[]}`)
	fb.on("POST", "/menu/add", 201, `{}`)
	fb.on("DELETE", "/menu/m1", 200, `{}`)
	menu, mr := newCachedMenu(t, fb)
	ctx := context.Background()

	_, err := menu.ListMenu(ctx)
	require.NoError(t, err)
	require.NoError(t, menu.AddMenuItem(ctx, domain.NewMenuItem()))
	assert.False(t, mr.Exists("royal:menu:all"))

	_, err = menu.ListMenu(ctx)
	require.NoError(t, err)
	require.NoError(t, menu.DeleteMenuItem(ctx, "m1"))
	assert.False(t, mr.Exists("royal:menu:all"))

	assert.Equal(t, 2, countGets(fb.calls()))
}

func TestCachedMenuFailedWriteKeepsCache(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[]}`)
	fb.on("PATCH", "/menu/m1", 500, `{"message":"boom"}`)
	menu, mr := newCachedMenu(t, fb)
	ctx := context.Background()

	_, err := menu.ListMenu(ctx)
	require.NoError(t, err)
	err = menu.UpdateMenuItem(ctx, "m1", domain.NewMenuItem())
	require.Error(t, err)
	assert.True(t, mr.Exists("royal:menu:all"))
}

func TestCachedMenuFallsThroughWhenRedisIsDown(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("GET", "/menu", 200, `{"menus":[{"_id":"m1"}]}`)
	menu, mr := newCachedMenu(t, fb)
	mr.Close()

	items, err := menu.ListMenu(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
