package app

import "time"

// Snapshot is the persisted projection of the timer, written to the
// external key-value store on every tick and every transition so a running
// interval survives a process restart. A snapshot is only ever restored
// when it was saved while running and is younger than the restore window;
// paused snapshots exist for display continuity only.
type Snapshot struct {
	// StartTimeEpochMs is the wall-clock epoch millisecond at which the
	// running interval began, already adjusted backward by any elapsed
	// time accumulated before earlier pauses. Zero when idle.
	StartTimeEpochMs int64 `json:"start_time_epoch_ms"`

	// ElapsedMs is the accumulated running time at save time. Advisory on
	// restore: the restored value is always recomputed from
	// StartTimeEpochMs against the current wall clock.
	ElapsedMs int64 `json:"elapsed_ms"`

	// Running records whether the timer was running at save time.
	Running bool `json:"running"`

	// TaskID is the raw external task reference. Empty when idle.
	TaskID string `json:"task_id"`

	// SavedAtMs is the wall-clock epoch millisecond of the save.
	SavedAtMs int64 `json:"saved_at_ms"`
}

// Age returns how long ago the snapshot was saved, relative to nowMs.
func (s Snapshot) Age(nowMs int64) time.Duration {
	return time.Duration(nowMs-s.SavedAtMs) * time.Millisecond
}

// Restorable reports whether the snapshot may be adopted on load: it must
// have been saved while running and be younger than maxAge. Anything else
// is stale and the timer stays idle.
func (s Snapshot) Restorable(nowMs int64, maxAge time.Duration) bool {
	return s.Running && s.Age(nowMs) < maxAge
}
