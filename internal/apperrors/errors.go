// Package apperrors defines the error taxonomy shared by repositories,
// services and handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a payload rejected before any store write.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a read/update/delete against a key with no document.
	// Distinct from an empty-but-existing history, which is not an error.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a create against a unique key that already exists.
	ErrConflict = errors.New("already exists")
	// ErrStore marks an unreachable or rejecting store. Fatal for the
	// current request; retries belong to the caller.
	ErrStore = errors.New("store failure")
)

// MissingField builds a validation error naming the first missing required
// field.
func MissingField(field string) error {
	return fmt.Errorf("%w: missing required field %q", ErrValidation, field)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
