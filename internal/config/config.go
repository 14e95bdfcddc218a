package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	DatabaseDriver string // "sqlite" | "postgres"
	DatabaseURL    string // DSN handed to the driver
	DatabaseDebug  bool   // log every query at debug level

	// Public surface
	PublicBaseURL string // optional, ex: https://tree.example.com (empty => derived from request)

	// Default template (seed values for new profiles)
	SeedFile           string        // optional YAML file, empty => embedded defaults
	SeedReloadInterval time.Duration // how often SeedFile is re-read

	// Sessions & accounts
	JWTSecret           string        // HMAC secret for session cookies
	SessionTTL          time.Duration // lifetime of a session (ex: 24h)
	RefreshWindow       time.Duration // re-issue the cookie when expiry is closer than this
	SecureCookies       bool          // set the Secure flag on cookies (enable behind TLS)
	RequireConfirmation bool          // new accounts must be confirmed before first sign-in
	SessionGCInterval   time.Duration // sweep interval for the in-memory session store

	// Link shortener
	ShortenerURL      string        // empty => shortening disabled
	ShortenerTimeout  time.Duration // per-call timeout
	ShortenerCacheTTL time.Duration // how long a shortened URL is reused

	// Redis (optional, empty addr => in-memory sessions and cache)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting at startup
	RedisRetryInterval  time.Duration // initial wait between retries, doubles each attempt
	RedisMaxWait        time.Duration // cap for the wait between retries
	RedisPingTimeout    time.Duration // timeout of each ping attempt
	RedisWarnThreshold  int           // warn (instead of error) for this many attempts

	AllowedHosts []string // optional, restrict /reload to these Host headers
	AllowedCIDRS []string // optional, restrict /readyz and /reload to these IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	cfg := &Config{
		ListenPort:      getenv("TREE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TREE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("TREE_REQUEST_TIMEOUT", 10*time.Second),

		LogLevel:  getenv("TREE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TREE_PRETTY_LOG", true),

		DatabaseDriver: strings.ToLower(getenv("TREE_DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:    getenv("TREE_DATABASE_URL", "file:tree.db?_foreign_keys=on"),
		DatabaseDebug:  mustBool("TREE_DATABASE_DEBUG", false),

		PublicBaseURL: strings.TrimRight(getenv("TREE_PUBLIC_BASE_URL", ""), "/"),

		SeedFile:           getenv("TREE_SEED_FILE", ""),
		SeedReloadInterval: mustDuration("TREE_SEED_RELOAD_INTERVAL", time.Hour),

		JWTSecret:           requireEnv("TREE_JWT_SECRET"),
		SessionTTL:          mustDuration("TREE_SESSION_TTL", 24*time.Hour),
		RefreshWindow:       mustDuration("TREE_SESSION_REFRESH_WINDOW", time.Hour),
		SecureCookies:       mustBool("TREE_SECURE_COOKIES", false),
		RequireConfirmation: mustBool("TREE_REQUIRE_CONFIRMATION", false),
		SessionGCInterval:   mustDuration("TREE_SESSION_GC_INTERVAL", 10*time.Minute),

		ShortenerURL:      getenv("TREE_SHORTENER_URL", "https://api.tinyurl.com/create"),
		ShortenerTimeout:  mustDuration("TREE_SHORTENER_TIMEOUT", 3*time.Second),
		ShortenerCacheTTL: mustDuration("TREE_SHORTENER_CACHE_TTL", 24*time.Hour),

		RedisAddr:           getenv("TREE_REDIS_ADDR", ""),
		RedisUser:           getenv("TREE_REDIS_USERNAME", ""),
		RedisPassword:       getenv("TREE_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TREE_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		AllowedHosts: splitAndTrim(getenv("TREE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("TREE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TREE_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Validate checks the combinations Load cannot express with defaults alone.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("TREE_DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("TREE_DATABASE_URL must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("TREE_SESSION_TTL must be > 0, got %v", c.SessionTTL)
	}
	if c.RefreshWindow < 0 || c.RefreshWindow >= c.SessionTTL {
		return fmt.Errorf("TREE_SESSION_REFRESH_WINDOW must be in [0, %v), got %v", c.SessionTTL, c.RefreshWindow)
	}
	if c.SeedReloadInterval <= 0 {
		return fmt.Errorf("TREE_SEED_RELOAD_INTERVAL must be > 0, got %v", c.SeedReloadInterval)
	}
	if c.SessionGCInterval <= 0 {
		return fmt.Errorf("TREE_SESSION_GC_INTERVAL must be > 0, got %v", c.SessionGCInterval)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.JWTSecret = "***REDACTED***"
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.DatabaseDriver == DriverPostgres {
		cp.DatabaseURL = "***REDACTED***"
	}
	return cp
}

// RedisEnabled reports whether sessions and the short-link cache live in Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
