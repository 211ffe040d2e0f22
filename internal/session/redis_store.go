package session

import (
	"context"
	"time"

	"royal_site/internal/cache"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis, expiring them with their ExpiresAt
type RedisStore struct {
	cache *cache.Cache
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis backed store
func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

// Get loads a session, ErrNotFound when it is missing or expired
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	found, err := r.cache.Get(ctx, redisKeyPrefix+id, &s)
	if err != nil {
		return nil, err
	}
	if !found || s.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save writes a session with a TTL matching its expiry
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, s.ID) // Already expired
	}
	return r.cache.Set(ctx, redisKeyPrefix+s.ID, s, ttl)
}

// Delete removes a session
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, redisKeyPrefix+id)
}
