package session

import (
	"context" // Request scoping
	"errors"  // Error inspection
	"time"    // Expiry checks

	"gorm.io/gorm" // GORM ORM library
)

// DBStore keeps sessions in the sessions table (see cmd/migrate)
type DBStore struct {
	db *gorm.DB
}

var _ Store = (*DBStore)(nil)

// NewDBStore creates a GORM backed store
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Get loads a session that has not expired yet
func (d *DBStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := d.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, time.Now()).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound // Unknown or expired
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save inserts or updates a session
func (d *DBStore) Save(ctx context.Context, s *Session) error {
	return d.db.WithContext(ctx).Save(s).Error
}

// Delete removes a session
func (d *DBStore) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
}

// PurgeExpired deletes every expired session and returns how many were removed
func (d *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := d.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&Session{})
	return res.RowsAffected, res.Error
}
