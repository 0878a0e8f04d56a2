package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a referenced record is absent or belongs to another account
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for missing fields, malformed dates and out-of-range values
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a state transition is not allowed (e.g. realizing twice)
	ErrConflict = errors.New("conflict")
)

// InvalidInputf builds an error wrapping ErrInvalidInput
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf builds an error wrapping ErrNotFound
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf builds an error wrapping ErrConflict
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
