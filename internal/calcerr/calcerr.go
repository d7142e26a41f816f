// Package calcerr holds the error taxonomy shared by the calculation packages.
package calcerr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation marks input that cannot be evaluated.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup of an unknown key (e.g. a timber grade).
	ErrNotFound = errors.New("not found")
)

// FieldError names the input field that failed validation.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// Field returns a validation error for a single field.
func Field(field string, value any, reason string) error {
	return &FieldError{Field: field, Value: value, Reason: reason}
}

// NotFound returns an error wrapping ErrNotFound.
func NotFound(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}

// Status maps an error to the HTTP status a handler should answer with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
