package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okolari/tracktimer/internal/domain"
)

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid input", domain.ErrInvalidInput, true},
		{"not found", domain.ErrNotFound, true},
		{"empty ID", domain.ErrEmptyID, true},
		{"invalid ID", domain.ErrInvalidID, true},
		{"wrapped client error", fmt.Errorf("start timer: %w", domain.ErrEmptyID), true},
		{"unavailable is not client", domain.ErrUnavailable, false},
		{"config required is not client", domain.ErrConfigRequired, false},
		{"unknown error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsClientError(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, domain.IsRetryable(domain.ErrUnavailable))
	assert.True(t, domain.IsRetryable(fmt.Errorf("load snapshot: %w", domain.ErrUnavailable)))
	assert.False(t, domain.IsRetryable(domain.ErrInvalidInput))
	assert.False(t, domain.IsRetryable(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, domain.IsNotFound(domain.ErrNotFound))
	assert.True(t, domain.IsNotFound(fmt.Errorf("snapshot: %w", domain.ErrNotFound)))
	assert.False(t, domain.IsNotFound(domain.ErrInvalidInput))
}
