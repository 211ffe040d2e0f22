package session

import (
	"errors"   // Error inspection
	"net/http" // Cookie attributes
	"strings"  // Redirect target checks
	"sync"     // Listener registration
	"time"     // Expiry

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Session identifiers
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/domain" // User identity
)

// CookieName is the name of the session cookie
const CookieName = "royal_session"

// contextKey caches the loaded session on the gin context
const contextKey = "session"

// Auth change events passed to listeners
const (
	EventLogin  = "login"
	EventLogout = "logout"
)

// Listener is notified after a login or logout
type Listener func(event string, s *Session)

// Manager ties the cookie, the signed token and the store together
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	secure bool // Secure cookies in production

	mu        sync.RWMutex
	listeners []Listener
}

// NewManager creates a session manager
func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl, secure: secure}
}

// OnChange registers a listener for login and logout events
func (m *Manager) OnChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Manager) notify(event string, s *Session) {
	m.mu.RLock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range listeners {
		l(event, s)
	}
}

// Load returns the session of the request, or nil when there is none.
// An invalid cookie or a missing session clears the cookie.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	if v, ok := c.Get(contextKey); ok {
		s, _ := v.(*Session)
		return s, nil
	}
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		c.Set(contextKey, (*Session)(nil))
		return nil, nil // No cookie
	}
	claims, err := ParseToken(raw, m.secret)
	if err != nil {
		m.clearCookie(c)
		c.Set(contextKey, (*Session)(nil))
		return nil, nil // Tampered or expired cookie
	}
	s, err := m.store.Get(c.Request.Context(), claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		m.clearCookie(c)
		c.Set(contextKey, (*Session)(nil))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Set(contextKey, s)
	return s, nil
}

// Current returns the session cached by Load, or nil
func Current(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		s, _ := v.(*Session)
		return s
	}
	return nil
}

// Login starts a fresh session for user. A remembered deep link of the
// previous session is carried over and the previous session is removed.
func (m *Manager) Login(c *gin.Context, user domain.User, userType, token string) (*Session, error) {
	prev, err := m.Load(c)
	if err != nil {
		logrus.WithError(err).Warn("Could not load the previous session")
	}
	s := m.newSession()
	s.User = user
	s.UserType = userType
	s.Token = token
	if prev != nil {
		s.RedirectTo = prev.RedirectTo
		if err := m.store.Delete(c.Request.Context(), prev.ID); err != nil {
			logrus.WithError(err).Warn("Could not delete the previous session")
		}
	}
	if err := m.save(c, s); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,  // Backend identifier
		"user_type": userType, // user or admin
	}).Info("User logged in")
	m.notify(EventLogin, s)
	return s, nil
}

// Logout removes the session and its cookie. Logging out without a session is a no-op.
func (m *Manager) Logout(c *gin.Context) error {
	s, err := m.Load(c)
	if err != nil {
		return err
	}
	m.clearCookie(c)
	c.Set(contextKey, (*Session)(nil))
	if s == nil {
		return nil
	}
	if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
		return err
	}
	if s.Authenticated() {
		logrus.WithField("user_id", s.User.ID).Info("User logged out")
		m.notify(EventLogout, s)
	}
	return nil
}

// RememberRedirect stores a deep link to resume after login, creating an
// anonymous session when needed. Only local paths are remembered.
func (m *Manager) RememberRedirect(c *gin.Context, target string) error {
	if !SafeRedirect(target) {
		return nil
	}
	s, err := m.Load(c)
	if err != nil {
		return err
	}
	if s == nil {
		s = m.newSession()
	}
	s.RedirectTo = target
	return m.save(c, s)
}

// TakeRedirect returns and clears the remembered deep link, or "" when none
func (m *Manager) TakeRedirect(c *gin.Context) string {
	s, err := m.Load(c)
	if err != nil || s == nil || s.RedirectTo == "" {
		return ""
	}
	target := s.RedirectTo
	s.RedirectTo = ""
	if err := m.store.Save(c.Request.Context(), s); err != nil {
		logrus.WithError(err).Warn("Could not clear the remembered redirect")
	}
	return target
}

// SafeRedirect reports whether target is a local absolute path
func SafeRedirect(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, `\`)
}

func (m *Manager) newSession() *Session {
	now := time.Now()
	return &Session{ID: uuid.NewString(), CreatedAt: now, ExpiresAt: now.Add(m.ttl)}
}

func (m *Manager) save(c *gin.Context, s *Session) error {
	if err := m.store.Save(c.Request.Context(), s); err != nil {
		return err
	}
	token, err := SignToken(s.ID, m.secret, time.Until(s.ExpiresAt))
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(time.Until(s.ExpiresAt).Seconds()), "/", "", m.secure, true)
	c.Set(contextKey, s)
	return nil
}

func (m *Manager) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}
