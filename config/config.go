// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	Addr            string        `envconfig:"HRMS_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"HRMS_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HRMS_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"HRMS_SHUTDOWN_TIMEOUT" default:"30s"`

	// DB is a SQLite path. Empty selects the in-memory mock store.
	DB string `envconfig:"HRMS_DB"`

	PolicyFile string `envconfig:"HRMS_POLICY_FILE"`

	LogLevel  string `envconfig:"HRMS_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"HRMS_LOG_FORMAT" default:"json"`

	// MockLatency delays every in-memory store call.
	MockLatency time.Duration `envconfig:"HRMS_MOCK_LATENCY" default:"0s"`

	EnforceBalance bool `envconfig:"HRMS_ENFORCE_BALANCE" default:"false"`

	// AuditInterval is how often negative balances are checked; 0 disables it.
	AuditInterval time.Duration `envconfig:"HRMS_AUDIT_INTERVAL" default:"1h"`

	// Seed loads the demo scenarios at startup. Unset means seed only the
	// in-memory store; see SeedDemo.
	Seed *bool `envconfig:"HRMS_SEED"`

	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit   int      `envconfig:"HRMS_RATE_LIMIT" default:"300"`
	CORSOrigins []string `envconfig:"HRMS_CORS_ORIGINS" default:"*"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address must be provided")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", c.LogFormat)
	}
	if c.MockLatency < 0 {
		return errors.New("mock latency must not be negative")
	}
	if c.AuditInterval < 0 {
		return errors.New("audit interval must not be negative")
	}
	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// SeedDemo reports whether demo scenarios are loaded at startup.
// A SQLite database is never seeded unless HRMS_SEED asks for it.
func (c *Config) SeedDemo() bool {
	if c.Seed != nil {
		return *c.Seed
	}
	return c.UsesMemoryStore()
}

// UsesMemoryStore reports whether the mock store is selected.
func (c *Config) UsesMemoryStore() bool {
	return c.DB == ""
}
