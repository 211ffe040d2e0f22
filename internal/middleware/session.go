package middleware

import (
	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/session" // Session manager
)

// Session loads the visitor's session into the context on every request.
// A failing store is logged and the request continues as anonymous.
func Session(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.Load(c); err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path, // Requested path
				"error": err,                // Store failure
			}).Error("Session store unavailable")
		}
		c.Next() // Proceed to the next handler
	}
}
