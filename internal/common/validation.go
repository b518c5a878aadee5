package common

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel all field validation failures wrap, so
// callers can match the whole class with errors.Is.
var ErrValidation = errors.New("validation error")

// ValidationError reports a malformed or invalid field on create or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
