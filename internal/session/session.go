package session

import (
	"context" // Store operations
	"errors"  // Sentinel errors
	"strings" // Email checks
	"time"    // Expiry

	"royal_site/internal/domain" // User identity
)

// ErrNotFound is returned by stores for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Session is the server side marker of a visitor. An anonymous visitor only
// gets one when a deep link has to be remembered.
type Session struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`              // Random identifier carried by the cookie
	User       domain.User `json:"user" gorm:"embedded;embeddedPrefix:user_"` // Logged in user, zero when anonymous
	UserType   string      `json:"userType" gorm:"size:16"`                   // user or admin
	Token      string      `json:"token,omitempty" gorm:"type:text"`          // Backend token, when one was returned
	RedirectTo string      `json:"redirectTo,omitempty" gorm:"size:512"`      // Deep link to resume after login
	CreatedAt  time.Time   `json:"createdAt"`                                 // Creation time
	ExpiresAt  time.Time   `json:"expiresAt" gorm:"index"`                    // Hard expiry
}

// TableName pins the table name used by the MySQL store
func (Session) TableName() string {
	return "sessions"
}

// Authenticated reports whether a user is logged in on this session
func (s *Session) Authenticated() bool {
	return s != nil && strings.TrimSpace(s.User.Email) != ""
}

// IsAdmin reports whether the session carries the admin type
func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.UserType == domain.UserTypeAdmin
}

// Owner identifies the session user for reservation filtering
func (s *Session) Owner() domain.Owner {
	if !s.Authenticated() {
		return domain.Owner{}
	}
	return domain.Owner{ID: s.User.ID, Email: s.User.Email}
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by identifier
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
