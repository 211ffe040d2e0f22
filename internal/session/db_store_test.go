package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"royal_site/internal/domain"
)

// TEST_MYSQL_DSN points at a disposable MySQL database
func newTestDBStore(t *testing.T) *DBStore {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Session{}))
	return NewDBStore(db)
}

func TestDBStoreLifecycle(t *testing.T) {
	store := newTestDBStore(t)
	ctx := context.Background()
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		User:      domain.User{ID: "u1", Name: "Ray", Email: "ray@x.com"},
		UserType:  domain.UserTypeUser,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	require.NoError(t, store.Save(ctx, s))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.User, got.User)

	s.RedirectTo = "/my-reservations"
	require.NoError(t, store.Save(ctx, s))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "/my-reservations", got.RedirectTo)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBStorePurgeExpired(t *testing.T) {
	store := newTestDBStore(t)
	ctx := context.Background()
	old := &Session{ID: uuid.NewString(), CreatedAt: time.Now().Add(-2 * time.Hour), ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.Save(ctx, old))

	_, err := store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
