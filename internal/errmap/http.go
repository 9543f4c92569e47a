// Package errmap translates domain errors into transport-level error
// responses for the HTTP control surface.
package errmap

import (
	"errors"
	"net/http"

	"github.com/okolari/tracktimer/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps domain errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is).
var httpMappings = []httpMapping{
	// Resource errors
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},

	// Validation errors — 400
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrEmptyID, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidID, http.StatusBadRequest, "INVALID_ARGUMENT"},

	// Availability
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// ToHTTPError converts a domain error to an HTTP error.
// Unrecognized errors map to 500 INTERNAL.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	return HTTPError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL",
		Message:    "internal error",
	}
}
