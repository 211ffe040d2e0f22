package backend

import (
	"context" // Request scoping
	"time"    // Cache TTL

	"github.com/sirupsen/logrus" // Logging of cache failures

	"royal_site/internal/cache"  // Redis cache
	"royal_site/internal/domain" // Menu items
)

// menuCacheKey holds the whole menu collection
const menuCacheKey = "menu:all"

// CachedMenu serves the menu collection from Redis and invalidates it on writes.
// Cache failures fall through to the backend.
type CachedMenu struct {
	next  MenuService   // Backend menu resource
	cache *cache.Cache  // Redis cache
	ttl   time.Duration // Lifetime of a cached menu
}

var _ MenuService = (*CachedMenu)(nil)

// NewCachedMenu wraps next with a Redis cache of the given TTL
func NewCachedMenu(next MenuService, c *cache.Cache, ttl time.Duration) *CachedMenu {
	return &CachedMenu{next: next, cache: c, ttl: ttl}
}

// ListMenu returns the cached collection, fetching it on a miss
func (m *CachedMenu) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	found, err := m.cache.Get(ctx, menuCacheKey, &items)
	if err == nil && found {
		return items, nil
	}
	if err != nil {
		logrus.WithField("error", err).Warn("Menu cache read failed")
	}
	items, err = m.next.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, menuCacheKey, items, m.ttl); err != nil {
		logrus.WithField("error", err).Warn("Menu cache write failed")
	}
	return items, nil
}

// GetMenuItem looks the item up in the (cached) collection
func (m *CachedMenu) GetMenuItem(ctx context.Context, id string) (domain.MenuItem, error) {
	return findMenuItem(ctx, m, id)
}

// AddMenuItem creates an item and invalidates the collection
func (m *CachedMenu) AddMenuItem(ctx context.Context, item domain.MenuItem) error {
	if err := m.next.AddMenuItem(ctx, item); err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}

// UpdateMenuItem updates an item and invalidates the collection
func (m *CachedMenu) UpdateMenuItem(ctx context.Context, id string, item domain.MenuItem) error {
	if err := m.next.UpdateMenuItem(ctx, id, item); err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}

// DeleteMenuItem removes an item and invalidates the collection
func (m *CachedMenu) DeleteMenuItem(ctx context.Context, id string) error {
	if err := m.next.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}

func (m *CachedMenu) invalidate(ctx context.Context) {
	if err := m.cache.Delete(ctx, menuCacheKey); err != nil {
		logrus.WithField("error", err).Warn("Menu cache invalidation failed")
	}
}
