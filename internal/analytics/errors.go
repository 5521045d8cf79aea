package analytics

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnknownBranch     = errors.New("unknown branch")
	ErrSourceUnavailable = errors.New("order source unavailable")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}
