package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	// ErrInvalidID means an identifier is malformed. It is reported exactly
	// like ErrNotFound at the HTTP boundary.
	ErrInvalidID = errors.New("invalid id")
	ErrNotFound  = errors.New("not found")
	// ErrAuth covers unknown emails, wrong passwords and unusable tokens alike.
	ErrAuth      = errors.New("authentication failed")
	ErrDuplicate = errors.New("email already registered")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
