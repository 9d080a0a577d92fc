// Package errors provides structured errors with stable codes for stackinit.
//
// Callers that need to branch on a failure mode use errors.As to recover the
// *StructuredError and inspect its Code; everything else treats these as
// ordinary wrapped errors.
package errors

import (
	"errors"
	"fmt"
)

// Error codes as constants
const (
	// ErrCodeNoMatch indicates no supported CPU target is compatible with the
	// host. This is fatal: environment setup must abort rather than guess.
	ErrCodeNoMatch = "NO_MATCH"

	// ErrCodeInvalidOverride indicates a forced-target override value that
	// could not be parsed. Detection is not retried.
	ErrCodeInvalidOverride = "INVALID_OVERRIDE"

	// ErrCodeInstallConflict indicates more than one mutually exclusive
	// installation mode was configured.
	ErrCodeInstallConflict = "INSTALL_CONFLICT"

	// ErrCodeAccelUnavailable indicates the accelerator target (and its
	// fallback tier) has no software directory. Callers downgrade this to a
	// warning; the base environment still initializes.
	ErrCodeAccelUnavailable = "ACCEL_UNAVAILABLE"

	// ErrCodeProbeFailure indicates host introspection failed.
	ErrCodeProbeFailure = "PROBE_FAILURE"

	// ErrCodeInternal indicates an unexpected internal condition.
	ErrCodeInternal = "INTERNAL"
)

// StructuredError is an error with a stable code that callers can branch on.
type StructuredError struct {
	// Code is one of the ErrCode* constants.
	Code string

	// Message is a human-readable description of the failure.
	Message string

	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause so errors.Is/errors.As chains work.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New creates a StructuredError with the given code and message.
func New(code, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Newf creates a StructuredError with a formatted message.
func Newf(code, format string, args ...any) *StructuredError {
	return &StructuredError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a StructuredError that wraps err with the given code and message.
// Returns nil when err is nil.
func Wrap(code, message string, err error) *StructuredError {
	if err == nil {
		return nil
	}
	return &StructuredError{Code: code, Message: message, Err: err}
}

// CodeOf returns the structured error code carried by err, or ErrCodeInternal
// when err carries none.
func CodeOf(err error) string {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given structured error code.
func HasCode(err error, code string) bool {
	var se *StructuredError
	return errors.As(err, &se) && se.Code == code
}
