package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotAge(t *testing.T) {
	snap := Snapshot{SavedAtMs: 1000}

	assert.Equal(t, 4*time.Second, snap.Age(5000))
	assert.Equal(t, time.Duration(0), snap.Age(1000))
}

func TestSnapshotRestorable(t *testing.T) {
	maxAge := 24 * time.Hour
	dayMs := int64(maxAge / time.Millisecond)

	tests := []struct {
		name string
		snap Snapshot
		now  int64
		want bool
	}{
		{"running and fresh", Snapshot{Running: true, SavedAtMs: 1000}, 2000, true},
		{"running just inside window", Snapshot{Running: true, SavedAtMs: 1000}, 1000 + dayMs - 1, true},
		{"running exactly at window boundary", Snapshot{Running: true, SavedAtMs: 1000}, 1000 + dayMs, false},
		{"running but expired", Snapshot{Running: true, SavedAtMs: 1000}, 1000 + dayMs + 5000, false},
		{"fresh but not running", Snapshot{Running: false, SavedAtMs: 1000}, 2000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Restorable(tt.now, maxAge))
		})
	}
}
