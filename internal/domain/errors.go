package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates that the request lacks valid authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidGraph indicates that an AI-generated graph payload violates
	// a structural invariant (duplicate node ids, dangling links).
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrMalformedPayload indicates that AI-proxy output could not be
	// parsed into the expected structure. Callers recover by substituting
	// fallback content; this error is never surfaced to the user.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrServiceUnavailable indicates that an external collaborator is
	// unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrStaleResult indicates that a response arrived for a superseded
	// request generation and must be discarded rather than applied.
	ErrStaleResult = errors.New("stale result")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DanglingLinkError reports a graph link whose source or target id does not
// resolve to any node in the same payload. The layout engine resolves link
// endpoints to node references in place, so an unresolvable reference is a
// data error, not something to drop silently mid-layout.
type DanglingLinkError struct {
	Source string
	Target string
	// Missing is the endpoint id that failed to resolve.
	Missing string
}

// Error implements the error interface.
func (e *DanglingLinkError) Error() string {
	return fmt.Sprintf("graph link %s -> %s references unknown node %q", e.Source, e.Target, e.Missing)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *DanglingLinkError) Unwrap() error {
	return ErrInvalidGraph
}

// DuplicateNodeError reports a graph payload containing two nodes with the
// same id.
type DuplicateNodeError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("graph contains duplicate node id %q", e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *DuplicateNodeError) Unwrap() error {
	return ErrInvalidGraph
}

// ExternalAPIError provides details about an external collaborator error.
type ExternalAPIError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ExternalAPIError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(source string, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
