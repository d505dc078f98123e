package validation

import (
	"errors"
	"fmt"
)

// Error kinds for the failure taxonomy. Callers classify with errors.Is;
// everything else bubbling out of the core is a storage failure.
var (
	// ErrValidation marks recoverable caller mistakes: malformed dates,
	// out-of-range times, missing names.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a mutation target that does not exist or does not
	// belong to the acting profile.
	ErrNotFound = errors.New("not found")

	// ErrConsistency marks malformed stored state, like a weekly schedule
	// with no weekday rows.
	ErrConsistency = errors.New("inconsistent state")

	// ErrNoProfile is returned when "currentProfile" cannot be resolved.
	ErrNoProfile = errors.New("no profile specified")
)

// Invalidf wraps a formatted message as a validation error.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// NotFoundf wraps a formatted message as a not-found error.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Inconsistentf wraps a formatted message as a consistency error.
func Inconsistentf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConsistency)
}
