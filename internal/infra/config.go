package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverREST     = "rest"
	DriverMemory   = "memory"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"8080"`

	StorageDriver  string        `envconfig:"STORAGE_DRIVER" default:"memory"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	BackendBaseURL string        `envconfig:"BACKEND_BASE_URL"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	RedisURL       string        `envconfig:"REDIS_URL"`

	SessionSecret  string        `envconfig:"SESSION_SECRET"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	GoogleClientID string        `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleIssuer   string        `envconfig:"GOOGLE_ISSUER" default:"https://accounts.google.com"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	RateLimitPerMin    int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`

	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	HTTPIdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`

	EnrichConcurrency int           `envconfig:"ENRICH_CONCURRENCY" default:"8"`
	EnrichMode        string        `envconfig:"ENRICH_MODE" default:"batched"`
	LeaderboardLimit  int           `envconfig:"LEADERBOARD_LIMIT" default:"10"`
	ViewCacheTTL      time.Duration `envconfig:"VIEW_CACHE_TTL" default:"5m"`
}

// LoadConfig reads an optional .env file, then the environment, and validates
// the settings the API server needs.
func LoadConfig() (*Config, error) {
	cfg, err := loadEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStorageConfig is LoadConfig for tools that only touch storage and never
// issue sessions.
func LoadStorageConfig() (*Config, error) {
	cfg, err := loadEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks everything the API server needs.
func (c *Config) Validate() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

// ValidateStorage normalizes the driver name and checks the settings it
// requires. Variables that are set but empty fall back to their defaults.
func (c *Config) ValidateStorage() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if c.StorageDriver == "" {
		c.StorageDriver = DriverMemory
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverREST:
		if c.BackendBaseURL == "" {
			return fmt.Errorf("BACKEND_BASE_URL is required for the rest driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %q", c.StorageDriver)
	}

	if c.EnrichConcurrency <= 0 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}
	c.EnrichMode = strings.ToLower(strings.TrimSpace(c.EnrichMode))
	if c.EnrichMode == "" {
		c.EnrichMode = "batched"
	}
	switch c.EnrichMode {
	case "batched", "concurrent":
	default:
		return fmt.Errorf("unsupported ENRICH_MODE: %q", c.EnrichMode)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
