package adapter

import (
	"context"
	"sync"

	"github.com/okolari/tracktimer/internal/tracker/app"
)

// Compile-time check: MemorySnapshotStore satisfies app.SnapshotStore.
var _ app.SnapshotStore = (*MemorySnapshotStore)(nil)

// MemorySnapshotStore keeps the snapshot in a process-local slot. Used in
// the local environment and in tests; state does not survive a restart, so
// restore-on-load only works within the same process lifetime.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	snap *app.Snapshot
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Load returns a copy of the stored snapshot, or (nil, nil) when empty.
func (s *MemorySnapshotStore) Load(_ context.Context) (*app.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, nil
	}
	snap := *s.snap
	return &snap, nil
}

// Save overwrites the stored snapshot.
func (s *MemorySnapshotStore) Save(_ context.Context, snap app.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &snap
	return nil
}

// Clear empties the slot.
func (s *MemorySnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}
