// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/water.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string        `envconfig:"DATABASE_URL" required:"true"`
	DBPoolMinConns int           `envconfig:"DB_POOL_MIN_CONNS" default:"2"`
	DBPoolMaxConns int           `envconfig:"DB_POOL_MAX_CONNS" default:"10"`
	DBPoolMaxLife  time.Duration `envconfig:"DB_POOL_MAX_LIFE" default:"30m"`

	// API server
	APIHost     string `envconfig:"API_HOST" default:"0.0.0.0"`
	APIPort     int    `envconfig:"API_PORT" default:"8000"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // development, staging, production
	Debug       bool   `envconfig:"DEBUG" default:"false"`

	// CORS
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	// Rate limiting
	RateLimitEnabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`

	// Shared secrets. AppSecret gates subscriber routes (x-api-key),
	// CronSecret gates the reminder triggers (Authorization: Bearer).
	AppSecret  string `envconfig:"APP_SECRET"`
	CronSecret string `envconfig:"CRON_SECRET"`

	// Web Push (VAPID)
	VAPIDSubject    string `envconfig:"VAPID_SUBJECT" default:"mailto:admin@localhost"`
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`

	// Reminders
	ReminderInterval  time.Duration `envconfig:"REMINDER_INTERVAL" default:"0"` // 0 = external cron only
	DispatchWorkers   int           `envconfig:"DISPATCH_WORKERS" default:"8"`
	MuteSweepInterval time.Duration `envconfig:"MUTE_SWEEP_INTERVAL" default:"1h"`

	// Stats
	StatsTimezone string        `envconfig:"STATS_TIMEZONE" default:"UTC"`
	DefaultGoal   int           `envconfig:"DEFAULT_GOAL" default:"2000"`
	CacheEnabled  bool          `envconfig:"CACHE_ENABLED" default:"true"`
	StatsCacheTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"30s"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if c.DispatchWorkers < 1 {
		return fmt.Errorf("DISPATCH_WORKERS must be >= 1, got %d", c.DispatchWorkers)
	}
	if c.DefaultGoal < 1 {
		return fmt.Errorf("DEFAULT_GOAL must be >= 1, got %d", c.DefaultGoal)
	}
	if _, err := time.LoadLocation(c.StatsTimezone); err != nil {
		return fmt.Errorf("STATS_TIMEZONE %q: %w", c.StatsTimezone, err)
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PushEnabled reports whether VAPID credentials are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// StatsLocation returns the zone used for day bucketing. Load already
// validated it, so failure falls back to UTC.
func (c *Config) StatsLocation() *time.Location {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
