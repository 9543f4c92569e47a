package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactSecrets(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		shouldRedact bool
	}{
		{"password is redacted", "password", "mysecret", true},
		{"redis_password is redacted", "redis_password", "dbpass", true},
		{"auth_token is redacted", "auth_token", "token123", true},
		{"authorization is redacted", "authorization", "Bearer xyz", true},
		{"snapshot_key_secret is redacted", "snapshot_key_secret", "sek", true},
		{"AWS_SECRET_ACCESS_KEY is redacted", "aws_secret_access_key", "AKIA...", true},
		{"task_id not redacted", "task_id", "task123", false},
		{"elapsed_ms not redacted", "elapsed_ms", "4500", false},
		{"message not redacted", "message", "hello world", false},
		{"error not redacted", "error", "something failed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: redactSecrets})
			logger := slog.New(handler)

			logger.Info("test", tt.key, tt.value)
			output := buf.String()

			if tt.shouldRedact {
				assert.Contains(t, output, "[REDACTED]", "expected %s to be redacted", tt.key)
				assert.NotContains(t, output, tt.value, "expected actual value to not appear for %s", tt.key)
			} else {
				assert.Contains(t, output, tt.value, "expected %s value to appear", tt.key)
				assert.NotContains(t, output, "[REDACTED]", "expected %s to not be redacted", tt.key)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	t.Run("creates logger with service context", func(t *testing.T) {
		cfg := LogConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "test-service",
			Environment: "test",
		}

		logger := InitLogger(cfg)
		assert.NotNil(t, logger)
	})

	t.Run("accepts text format and error level", func(t *testing.T) {
		cfg := LogConfig{
			Level:       "error",
			Format:      "text",
			ServiceName: "test-service",
			Environment: "test",
		}

		logger := InitLogger(cfg)
		assert.NotNil(t, logger)
	})
}
