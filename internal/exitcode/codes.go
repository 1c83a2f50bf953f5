// Package exitcode defines structured exit codes for pakeforge commands.
// Scripts driving the headless build and install commands can react to a
// specific failure without parsing the log transcript.
//
// # Exit Code Ranges
//
//   - 0: Success
//   - 1-9: General errors (usage, internal)
//   - 10-19: Rejected before any process was launched
//   - 20-29: External process errors
//   - 30-39: Persistence errors
//   - 50-59: Conflict/state errors
//
// # Usage
//
//	return exitcode.Wrap(exitcode.ErrProcess, "build failed", err)
//	code := exitcode.Code(err) // ErrGeneral for non-coded errors
package exitcode

import (
	"errors"
	"fmt"
)

const (
	// Success indicates the command completed successfully.
	Success = 0

	// General errors (1-9)
	ErrGeneral  = 1 // General/unknown error
	ErrUsage    = 2 // Invalid arguments or usage
	ErrInternal = 3 // Internal error (bug)

	// Rejected before launch (10-19)
	ErrValidation   = 10 // Required build field missing
	ErrPrecondition = 11 // Dependencies not installed

	// External process (20-29)
	ErrLaunch  = 20 // Command could not be started
	ErrProcess = 21 // Command exited non-zero

	// Persistence (30-39)
	ErrPersistence = 30 // History ledger unreadable/unwritable

	// Conflict/state errors (50-59)
	ErrBusy = 52 // Another session is running
)

// Error wraps an error with a specific exit code.
type Error struct {
	Code    int
	Message string
	Cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new coded error.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with printf-style formatting.
func Newf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Code extracts the exit code from an error.
// Returns ErrGeneral (1) if the error doesn't have a code.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrGeneral
}

// Is checks if an error has a specific exit code.
func Is(err error, code int) bool {
	return Code(err) == code
}

// Usage returns an error for invalid command-line usage.
func Usage(format string, args ...interface{}) *Error {
	return Newf(ErrUsage, format, args...)
}
