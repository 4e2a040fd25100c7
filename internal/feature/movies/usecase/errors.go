// Package usecase implements the business logic for the movies feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no movie exists for the given record id.
	ErrNotFound = errors.New("movie not found")

	// ErrConstraintViolation is returned when a title, description or image URL is already stored.
	ErrConstraintViolation = errors.New("movie already exists")

	// ErrLookupFailed is returned when the external movie database is unreachable
	// or answers with an error or an unusable payload.
	ErrLookupFailed = errors.New("movie lookup failed")
)

// ValidationError reports malformed user input for a single form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
