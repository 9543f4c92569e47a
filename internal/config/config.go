// Package config provides configuration loading using koanf.
// Precedence: environment variables over compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/okolari/tracktimer/internal/domain"
)

// Config holds all service configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// Service configuration
	Tracker TrackerConfig `koanf:"tracker"`

	// Infrastructure configurations
	Redis    RedisConfig    `koanf:"redis"`
	DynamoDB DynamoDBConfig `koanf:"dynamodb"`
	AWS      AWSConfig      `koanf:"aws"`

	// OpenTelemetry configuration
	OTEL OTELConfig `koanf:"otel"`
}

// TrackerConfig holds tracker service configuration.
type TrackerConfig struct {
	HTTPPort int `koanf:"http_port"`

	// Backend selects the snapshot store: "redis", "dynamodb" or "memory".
	Backend        string        `koanf:"backend"`
	SnapshotKey    string        `koanf:"snapshot_key"`
	TickInterval   time.Duration `koanf:"tick_interval"`
	SnapshotMaxAge time.Duration `koanf:"snapshot_max_age"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Timeout  time.Duration `koanf:"timeout"`
}

// DynamoDBConfig holds DynamoDB configuration.
type DynamoDBConfig struct {
	Endpoint string        `koanf:"endpoint"` // Empty for production (uses default AWS endpoint)
	Table    string        `koanf:"table"`    // Required when backend is "dynamodb"
	Timeout  time.Duration `koanf:"timeout"`
}

// AWSConfig holds AWS SDK configuration.
type AWSConfig struct {
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"` // LocalStack endpoint for development
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment: "local",
		LogLevel:    "info",
		LogFormat:   "json",

		Tracker: TrackerConfig{
			HTTPPort:       8080,
			Backend:        "memory",
			SnapshotKey:    domain.DefaultSnapshotKey,
			TickInterval:   domain.TickInterval,
			SnapshotMaxAge: domain.SnapshotMaxAge,
		},

		Redis: RedisConfig{
			Addr:    "localhost:6379",
			DB:      0,
			Timeout: domain.RedisTimeout,
		},
		DynamoDB: DynamoDBConfig{
			Table:   "tracker-snapshots",
			Timeout: domain.DynamoDBTimeout,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
	}
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest)
// 2. Compiled defaults (lowest)
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	// Start with compiled defaults
	cfg := defaults()

	// Load environment variables
	// Prefix: none (we use full names like TRACKER_HTTP_PORT)
	// Delimiter: _ maps to . for nested config
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate required fields
	if err := validateRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRequired checks that required configuration is present.
// A missing required key is a startup failure.
func validateRequired(cfg *Config) error {
	switch cfg.Tracker.Backend {
	case "memory", "redis", "dynamodb":
	default:
		return fmt.Errorf("%w: tracker.backend must be memory, redis or dynamodb", domain.ErrConfigRequired)
	}

	// In local environment, the remaining fields have sensible defaults
	if cfg.Environment == "local" {
		return nil
	}

	// In production, the selected backend must be fully configured
	if cfg.Environment == "prod" {
		if cfg.Tracker.Backend == "redis" && cfg.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr", domain.ErrConfigRequired)
		}
		if cfg.Tracker.Backend == "dynamodb" && cfg.DynamoDB.Table == "" {
			return fmt.Errorf("%w: dynamodb.table", domain.ErrConfigRequired)
		}
	}

	return nil
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
