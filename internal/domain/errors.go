package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// ID validation errors
	ErrEmptyID   = errors.New("ID cannot be empty")
	ErrInvalidID = errors.New("invalid ID format")

	// Resource errors
	ErrNotFound = errors.New("resource not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Operational errors
	ErrUnavailable = errors.New("service temporarily unavailable")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
)

// clientErrors enumerates all domain errors that represent caller-side
// issues: retrying without changing the request will not help.
var clientErrors = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrEmptyID,
	ErrInvalidID,
}

// IsClientError returns true if the error represents a caller-side issue.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsNotFound returns true if the error represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
