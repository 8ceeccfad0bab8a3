package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a caller may need to distinguish.
var (
	ErrEmptyInput          = errors.New("input cannot be empty")
	ErrInputTooLong        = errors.New("input too long")
	ErrUnsupportedLanguage = errors.New("unsupported output language")

	ErrUnsupportedURL   = errors.New("unsupported URL")
	ErrContentRetrieval = errors.New("could not retrieve content")
	ErrFetchTimeout     = errors.New("content fetch timed out")

	ErrVectorizerMissing   = errors.New("vectorizer artifact not found")
	ErrModelWeightsMissing = errors.New("model weights artifact not found")

	ErrModelInvocation = errors.New("model invocation failed")
	ErrModelResponse   = errors.New("model returned a malformed response")

	ErrInvalidPrice  = errors.New("invalid price value")
	ErrInvalidScore  = errors.New("safe score out of range")
	ErrBadThresholds = errors.New("ensemble thresholds misconfigured")

	ErrNotFound = errors.New("check not found")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
