package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a rental or dispute id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed is returned when a conditional update loses a
	// race: the row's status no longer matches the expected one. The caller
	// decides whether to surface a conflict or re-read; it is never retried
	// internally.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrUnauthorized is returned when the actor is not the party allowed to
	// perform the transition.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DependencyError wraps a persistence or downstream failure.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func NewDependencyError(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}
