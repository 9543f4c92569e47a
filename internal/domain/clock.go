// Package domain contains pure business logic and types.
// No infrastructure dependencies - this is the innermost ring.
package domain

import "time"

// Clock provides the current time. The timer never reads the system clock
// directly: production wiring injects RealClock, tests inject a
// deterministic fake. Time is a dependency; inject it like any other.
type Clock interface {
	// Now returns the current time. The returned time includes both wall
	// clock and monotonic readings when using RealClock.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// NowUTCMillis returns the current wall clock as UTC milliseconds since
// epoch. All persisted timestamps use this representation.
func NowUTCMillis(c Clock) int64 {
	return c.Now().UTC().UnixMilli()
}

// FromMillis converts epoch milliseconds to time.Time.
// The returned time has no monotonic reading (safe for serialization).
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Ensure RealClock implements Clock at compile time.
var _ Clock = RealClock{}
