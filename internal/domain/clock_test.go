package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okolari/tracktimer/internal/domain"
	"github.com/okolari/tracktimer/internal/domain/domaintest"
)

func TestRealClockNow(t *testing.T) {
	clock := domain.RealClock{}

	before := time.Now()
	got := clock.Now()
	after := time.Now()

	assert.False(t, got.Before(before), "RealClock.Now should not be before time.Now")
	assert.False(t, got.After(after), "RealClock.Now should not be after time.Now")
}

func TestNowUTCMillis(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	clock := domaintest.NewFakeClock(fixed)

	assert.Equal(t, fixed.UnixMilli(), domain.NowUTCMillis(clock))
}

func TestFromMillisRoundTrip(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	got := domain.FromMillis(fixed.UnixMilli())

	assert.True(t, got.Equal(fixed))
	assert.Equal(t, time.UTC, got.Location())
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	clock := domaintest.NewFakeClock(start)

	clock.Advance(90 * time.Second)

	assert.Equal(t, start.Add(90*time.Second), clock.Now())
}

func TestFakeClockAtMillis(t *testing.T) {
	clock := domaintest.AtMillis(1000)

	assert.Equal(t, int64(1000), domain.NowUTCMillis(clock))

	clock.SetMillis(4500)
	assert.Equal(t, int64(4500), domain.NowUTCMillis(clock))
}
