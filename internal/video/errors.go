package video

import (
	"fmt"
)

// Validation failure reasons
const (
	ReasonMissingRequiredField = "missing_required_field"
	ReasonOutOfRange           = "out_of_range"
	ReasonEmptyText            = "empty_text"
	ReasonInvalidJSON          = "invalid_json"
)

// ValidationError reports malformed client input
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingRequiredField:
		return "title and playbackUrl are required"
	case ReasonOutOfRange:
		return "rating must be a whole number between 1 and 5"
	case ReasonEmptyText:
		return "comment text must not be empty"
	case ReasonInvalidJSON:
		return "request body must be a JSON object"
	default:
		return "invalid request: " + e.Reason
	}
}

// AuthError reports a missing or incorrect shared secret
type AuthError struct{}

func (e *AuthError) Error() string {
	return "Unauthorized"
}

// NotFoundError reports an id that does not resolve to a persisted video
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "Video not found"
}

// UnsupportedFilterError reports an unknown bulk-delete provider tag
type UnsupportedFilterError struct {
	Tag string
}

func (e *UnsupportedFilterError) Error() string {
	return fmt.Sprintf("unsupported provider filter %q", e.Tag)
}

// StoreError wraps a failed store operation.
// Error returns a short client-safe message; Unwrap exposes the cause for logging.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "Failed to " + e.Op
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
