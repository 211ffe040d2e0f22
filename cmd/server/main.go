package main

import (
	"context"   // Redis ping and shutdown deadlines
	"errors"    // Server shutdown inspection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // Termination signal
	"time"      // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"royal_site/internal/backend"    // Restaurant backend client
	"royal_site/internal/cache"      // Redis JSON cache
	"royal_site/internal/config"     // Configuration
	"royal_site/internal/db"         // MySQL session store connection
	"royal_site/internal/metrics"    // Prometheus metrics
	"royal_site/internal/middleware" // Rate limiting
	"royal_site/internal/session"    // Sessions
	"royal_site/internal/web"        // Pages
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		if cfg.SessionSecret == "" {
			logrus.Fatal("SESSION_SECRET must be set in production")
		}
	}

	// Setup Redis only when sessions or the menu cache live there
	var redisCache *cache.Cache
	if cfg.NeedsRedis() {
		redisClient := connectRedis(cfg)
		defer redisClient.Close()
		redisCache = cache.New(redisClient, "royal:")
	}

	// Session store
	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreMySQL:
		conn, err := db.Open(cfg.MySQLDSN())
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		dbStore := session.NewDBStore(conn)
		go purgeSessions(dbStore)
		store = dbStore
	case config.SessionStoreRedis:
		store = session.NewRedisStore(redisCache)
	default:
		logrus.Fatalf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	collector := metrics.New("royal_site")
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProd)
	sessions.OnChange(func(event string, s *session.Session) {
		collector.ObserveAuth(event) // Count logins and logouts
	})

	// Backend client, menu reads served from Redis
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, collector)
	var menu backend.MenuService = client
	if cfg.MenuCacheTTL > 0 {
		menu = backend.NewCachedMenu(client, redisCache, cfg.MenuCacheTTL)
	}

	if len(cfg.AdminEmails) == 0 {
		logrus.Warn("ADMIN_EMAILS is empty, the admin panel is open to every visitor")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	srv, err := web.NewServer(web.Deps{
		Config:       cfg,
		Menu:         menu,
		Reservations: client,
		Auth:         client,
		Sessions:     sessions,
		Metrics:      collector,
		Limiter:      limiter,
	})
	if err != nil {
		logrus.Fatalf("failed to load templates: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := srv.Router()

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.AppPort,      // Listen port
			"backend": cfg.BackendURL,   // Restaurant backend
			"store":   cfg.SessionStore, // Session store
		}).Info("Server running")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}

// connectRedis opens the Redis client and checks it answers
func connectRedis(cfg *config.Config) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	return redisClient
}

// purgeSessions removes expired MySQL sessions every hour
func purgeSessions(store *session.DBStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		n, err := store.PurgeExpired(context.Background())
		if err != nil {
			logrus.WithError(err).Warn("Session purge failed")
			continue
		}
		logrus.WithField("removed", n).Debug("Expired sessions purged")
	}
}
