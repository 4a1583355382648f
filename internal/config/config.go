// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // reminder timezone in minimal containers
)

// --------------------------------------------------------------------------
// Store backends
// --------------------------------------------------------------------------

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Store
	StoreBackend string

	// Database (postgres backend)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Firebase
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string
	PushEnabled             bool

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Delivery
	RedisAddr           string
	DedupeTTL           time.Duration
	DispatchConcurrency int

	// Jobs
	SchedulerEnabled      bool
	ReminderTimezone      *time.Location
	InactiveDays          int
	NotificationRetention time.Duration
	ContentPoolDir        string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", BackendFirestore)),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		FirebaseProjectID:       envOr("FIREBASE_PROJECT_ID", envOr("GOOGLE_CLOUD_PROJECT", "")),
		FirebaseCredentialsFile: envOr("FIREBASE_CREDENTIALS_FILE", envOr("GOOGLE_APPLICATION_CREDENTIALS", "")),
		FirebaseCredentialsJSON: envOr("FIREBASE_CREDENTIALS_JSON", ""),
		PushEnabled:             envBool("PUSH_ENABLED", true),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8080)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		RedisAddr:           envOr("REDIS_ADDR", ""),
		DedupeTTL:           time.Duration(envInt("DEDUPE_TTL_HOURS", 24)) * time.Hour,
		DispatchConcurrency: envInt("DISPATCH_CONCURRENCY", 16),

		SchedulerEnabled:      envBool("SCHEDULER_ENABLED", true),
		InactiveDays:          envInt("INACTIVE_DAYS", 3),
		NotificationRetention: time.Duration(envInt("NOTIFICATION_RETENTION_DAYS", 30)) * 24 * time.Hour,
		ContentPoolDir:        envOr("CONTENT_POOL_DIR", ""),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}

	loc, err := time.LoadLocation(envOr("REMINDER_TIMEZONE", "America/New_York"))
	if err != nil {
		return nil, fmt.Errorf("REMINDER_TIMEZONE: %w", err)
	}
	cfg.ReminderTimezone = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case BackendFirestore:
		if c.FirebaseProjectID == "" && c.FirebaseCredentialsFile == "" && c.FirebaseCredentialsJSON == "" {
			errs = append(errs, errors.New("firestore backend needs FIREBASE_PROJECT_ID or credentials"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("postgres backend needs DATABASE_URL"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if c.InactiveDays < 1 {
		errs = append(errs, fmt.Errorf("INACTIVE_DAYS must be positive, got %d", c.InactiveDays))
	}
	if c.DispatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("DISPATCH_CONCURRENCY must be positive, got %d", c.DispatchConcurrency))
	}
	return errors.Join(errs...)
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesFirebase reports whether a Firebase app must be initialized, either for
// the document store or for push delivery.
func (c *Config) UsesFirebase() bool {
	return c.StoreBackend == BackendFirestore || c.PushEnabled
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
