package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/session" // Session manager
)

// LoginPath is where anonymous visitors are sent
const LoginPath = "/login"

// RequireLogin sends anonymous visitors to the login page, remembering the
// page they asked for so login can return there.
func RequireLogin(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.Current(c).Authenticated() {
			c.Next()
			return
		}
		redirectToLogin(c, m)
	}
}

// AdminOnly guards the admin views. When open is set every visitor passes,
// otherwise the session must carry the admin type. Logged in non-admins get
// forbidden, or a 403 when forbidden is nil.
func AdminOnly(m *session.Manager, open bool, forbidden gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if open {
			c.Next()
			return
		}
		s := session.Current(c)
		if !s.Authenticated() {
			redirectToLogin(c, m)
			return
		}
		if !s.IsAdmin() {
			logrus.WithFields(logrus.Fields{
				"user_id": s.User.ID,          // Who tried
				"path":    c.Request.URL.Path, // What they tried
			}).Warn("Admin access denied")
			if forbidden != nil {
				forbidden(c)
				c.Abort()
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context, m *session.Manager) {
	if c.Request.Method == http.MethodGet {
		if err := m.RememberRedirect(c, c.Request.URL.RequestURI()); err != nil {
			logrus.WithError(err).Warn("Could not remember the requested page")
		}
	}
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}
