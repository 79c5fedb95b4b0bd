package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested video does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrServerOffline indicates the API is unreachable
	ErrServerOffline = errors.New("video API is unreachable")

	// ErrAuthFailed indicates the credentials or token were rejected
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotConfigured indicates no API URL has been set up
	ErrNotConfigured = errors.New("API URL is not configured")
)

// APIError is a non-2xx response that does not map to a more specific
// sentinel. Validation failures from the backend arrive as this type.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is lets errors.Is match an APIError against the status sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized
	case ErrItemNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
