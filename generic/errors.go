/*
errors.go - Centralized error types for the rules packages

PURPOSE:
  All error types in one place for consistency and discoverability.
  Rules packages return these (usually wrapped with fmt.Errorf("...: %w"))
  and the API layer maps them to HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - Malformed input (bad date, negative day count)
  2. Lookup errors - Referenced employee/request does not exist

  Boundary arithmetic (zero years of service, empty mark lists, zero-length
  schedules) is NOT an error. Those inputs have defined zero outputs.

USAGE:
  if errors.Is(err, generic.ErrInvalidInput) {
      // 400
  }

  var verr *generic.ValidationError
  if errors.As(err, &verr) {
      log.WithField("field", verr.Field).Warn(verr.Reason)
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is the root of every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("request not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field and why it was rejected.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// PeriodError reports a period whose end precedes its start.
type PeriodError struct {
	Period Period
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPeriod, e.Period)
}

// Is lets errors.Is match both ErrInvalidPeriod and ErrInvalidInput.
func (e *PeriodError) Is(target error) bool {
	return target == ErrInvalidPeriod || target == ErrInvalidInput
}

// Invalid is shorthand for a ValidationError without a value.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}
