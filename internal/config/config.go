package config

import (
	"os"      // For environment variables
	"strconv" // For string to number conversion
	"strings" // For list parsing
	"time"    // For durations and locations

	"github.com/joho/godotenv" // For loading .env files
	"github.com/sirupsen/logrus"
)

// Session store backends
const (
	SessionStoreRedis = "redis" // Sessions kept in Redis with a TTL
	SessionStoreMySQL = "mysql" // Sessions kept in a MySQL table through GORM
)

// Defaults used when a variable is not set
const (
	defaultPort       = "8080"
	defaultBackendURL = "https://banerjee-royal-backend.onrender.com"
	devSessionSecret  = "dev-session-secret-change-me"
)

// Config holds the application configuration
type Config struct {
	AppPort            string         // Application port
	IsProd             bool           // Is production environment
	BackendURL         string         // Base URL of the restaurant REST backend
	BackendTimeout     time.Duration  // Per request timeout towards the backend
	SessionSecret      string         // HS256 key signing the session cookie
	SessionTTL         time.Duration  // Lifetime of a login session
	SessionStore       string         // redis or mysql
	RedisAddr          string         // Redis server address
	RedisPass          string         // Redis password
	RedisDB            int            // Redis database number
	DBUser             string         // Database user
	DBPassword         string         // Database password
	DBHost             string         // Database host
	DBPort             string         // Database port
	DBName             string         // Database name
	MenuCacheTTL       time.Duration  // TTL of the cached menu collection, 0 disables caching
	AdminEmails        []string       // Emails granted the admin session type
	CORSOrigins        []string       // Origins allowed on the JSON endpoints
	Location           *time.Location // Location of "today" and local midnight
	RateLimitRPS       float64        // Requests per second per IP on login, signup and booking
	RateLimitBurst     int            // Burst per IP
	FeaturedCategories []string       // Menu categories featured on the home page
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort:            getEnvOrDefault("APP_PORT", defaultPort),
		IsProd:             os.Getenv("IS_PROD") == "true",
		BackendURL:         strings.TrimRight(getEnvOrDefault("BACKEND_URL", defaultBackendURL), "/"),
		BackendTimeout:     getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SessionStore:       strings.ToLower(getEnvOrDefault("SESSION_STORE", SessionStoreRedis)),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASS"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBHost:             getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:             getEnvOrDefault("DB_PORT", "3306"),
		DBName:             os.Getenv("DB_NAME"),
		MenuCacheTTL:       getEnvAsDuration("MENU_CACHE_TTL", 60*time.Second),
		AdminEmails:        getEnvAsList("ADMIN_EMAILS"),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS"),
		Location:           getEnvAsLocation("TIMEZONE"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),
		FeaturedCategories: getEnvAsList("FEATURED_CATEGORIES"),
	}
	if len(cfg.FeaturedCategories) == 0 {
		cfg.FeaturedCategories = []string{"Special Biryani", "Biryani", "Specialty"}
	}
	// Development keeps working without a secret, production must set one
	if cfg.SessionSecret == "" && !cfg.IsProd {
		logrus.Warn("SESSION_SECRET is not set, using the development secret")
		cfg.SessionSecret = devSessionSecret
	}
	return cfg
}

// MySQLDSN builds the Data Source Name for the MySQL session store
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// NeedsRedis reports whether a configured component keeps data in Redis
func (c *Config) NeedsRedis() bool {
	return c.SessionStore == SessionStoreRedis || c.MenuCacheTTL > 0
}

// IsAdminEmail reports whether the email belongs to restaurant staff
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.Warnf("invalid integer in %s, using %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logrus.Warnf("invalid number in %s, using %v", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.Warnf("invalid duration in %s, using %s", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("unknown time zone %q in %s, using local time", name, key)
		return time.Local
	}
	return loc
}
