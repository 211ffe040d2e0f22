package middleware

import (
	"time" // Request timing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging

	"royal_site/internal/metrics" // Request counters
)

// Logger writes one logrus entry per request and counts it in m (may be nil)
func Logger(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath() // Route template keeps label cardinality bounded
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveHTTP(c.Request.Method, route, status)

		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,             // HTTP method
			"path":     c.Request.URL.Path,           // Requested path
			"status":   status,                       // Response status
			"duration": time.Since(started).String(), // Handling time
			"ip":       c.ClientIP(),                 // Client address
		})
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
	}
}
