package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okolari/tracktimer/internal/config"
	"github.com/okolari/tracktimer/internal/domain"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	// Tracker defaults
	assert.Equal(t, 8080, cfg.Tracker.HTTPPort)
	assert.Equal(t, "memory", cfg.Tracker.Backend)
	assert.Equal(t, domain.DefaultSnapshotKey, cfg.Tracker.SnapshotKey)
	assert.Equal(t, domain.TickInterval, cfg.Tracker.TickInterval)
	assert.Equal(t, domain.SnapshotMaxAge, cfg.Tracker.SnapshotMaxAge)

	// Infrastructure defaults
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, domain.RedisTimeout, cfg.Redis.Timeout)
	assert.Equal(t, "tracker-snapshots", cfg.DynamoDB.Table)
	assert.Equal(t, domain.DynamoDBTimeout, cfg.DynamoDB.Timeout)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"local returns true", "local", true},
		{"prod returns false", "prod", false},
		{"dev returns false", "dev", false},
		{"empty returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tt.env}

			assert.Equal(t, tt.want, cfg.IsLocal())
		})
	}
}

func TestIsProd(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"prod returns true", "prod", true},
		{"local returns false", "local", false},
		{"dev returns false", "dev", false},
		{"empty returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tt.env}

			assert.Equal(t, tt.want, cfg.IsProd())
		})
	}
}

func TestValidateRequired_LocalAllowsMissingFields(t *testing.T) {
	t.Setenv("ENVIRONMENT", "local")

	cfg, err := config.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Environment)
}

func TestValidateRequired_UnknownBackend(t *testing.T) {
	t.Setenv("TRACKER_BACKEND", "postgres")

	_, err := config.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigRequired)
	assert.Contains(t, err.Error(), "tracker.backend")
}

func TestValidateRequired_ProdRequiresRedisAddr(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TRACKER_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := config.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigRequired)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestValidateRequired_ProdRequiresDynamoDBTable(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TRACKER_BACKEND", "dynamodb")
	t.Setenv("DYNAMODB_TABLE", "")

	_, err := config.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigRequired)
	assert.Contains(t, err.Error(), "dynamodb.table")
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TRACKER_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_TIMEOUT", "250ms")

	cfg, err := config.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "redis", cfg.Tracker.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Redis.Timeout)
}
