package middleware

import (
	"net/http" // Status codes
	"sync"     // Client map locking
	"time"     // Idle tracking

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
	"golang.org/x/time/rate"     // Token buckets
)

// client is the bucket of one IP
type client struct {
	lim  *rate.Limiter // Token bucket
	seen time.Time     // Last request
}

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	mu      sync.Mutex         // Guards clients
	clients map[string]*client // Buckets by IP
	r       rate.Limit         // Refill rate
	burst   int                // Bucket size
	stop    chan struct{}      // Closed by Stop
	once    sync.Once          // Stop runs once
}

// NewRateLimiter creates a limiter and starts sweeping idle clients every minute
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep(3 * time.Minute)
			case <-rl.stop:
				return
			}
		}
	}()
	return rl
}

// Stop ends the background sweep
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Allow reports whether ip may make one more request now
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.get(ip).Allow()
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: time.Now()}
	return l
}

// sweep forgets clients idle for longer than maxIdle
func (rl *RateLimiter) sweep(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if time.Since(c.seen) > maxIdle {
			delete(rl.clients, ip)
		}
	}
}

// RateLimit rejects requests over the per-IP budget with 429
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			logrus.WithFields(logrus.Fields{
				"ip":   ip,                 // Client address
				"path": c.Request.URL.Path, // Limited route
			}).Warn("Rate limit exceeded")
			c.String(http.StatusTooManyRequests, "Too many requests, please try again in a moment.")
			c.Abort()
			return
		}
		c.Next()
	}
}
