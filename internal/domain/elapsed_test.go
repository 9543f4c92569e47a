package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okolari/tracktimer/internal/domain"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name      string
		elapsedMs int64
		want      string
	}{
		{"zero", 0, "00:00:00"},
		{"sub-second truncates", 999, "00:00:00"},
		{"one second", 1000, "00:00:01"},
		{"one hour one minute one second", 3661000, "01:01:01"},
		{"just under a minute", 59999, "00:00:59"},
		{"exactly one day keeps counting hours", 24 * 3600 * 1000, "24:00:00"},
		{"hours beyond two digits", 125*3600*1000 + 7000, "125:00:07"},
		{"negative clamps to zero", -500, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FormatElapsed(tt.elapsedMs))
		})
	}
}
