package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TaskID is a value object referencing the external task being timed.
// The backend owns task identity, so the format is opaque: any non-empty
// string up to MaxTaskIDLength is accepted. Always valid in memory - use
// NewTaskID to construct.
type TaskID struct {
	value string
}

// NewTaskID creates a TaskID from a raw string.
func NewTaskID(raw string) (TaskID, error) {
	if raw == "" {
		return TaskID{}, ErrEmptyID
	}
	if len(raw) > MaxTaskIDLength {
		return TaskID{}, fmt.Errorf("task ID exceeds max length %d: %w", MaxTaskIDLength, ErrInvalidID)
	}
	return TaskID{value: raw}, nil
}

// MustTaskID creates a TaskID, panicking on invalid input. Use only in tests.
func MustTaskID(raw string) TaskID {
	id, err := NewTaskID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateTaskID creates a new random TaskID. Used when timing ad-hoc work
// that has no backend task yet.
func GenerateTaskID() TaskID {
	return TaskID{value: uuid.NewString()}
}

func (id TaskID) String() string { return id.value }
func (id TaskID) IsZero() bool   { return id.value == "" }
