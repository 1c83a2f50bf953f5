package session

import (
	"errors"
	"fmt"

	"github.com/steveyegge/pakeforge/internal/pake"
)

// ErrBusy is returned when an action is requested while another is running.
var ErrBusy = errors.New("another install or build is already running")

// ValidationError is a rejected build request.
type ValidationError = pake.ValidationError

// PreconditionError means the project is not ready to build.
type PreconditionError struct {
	Path string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("dependencies not installed (%s not found); run install first", e.Path)
}

// ProcessFailure is a non-zero exit from one step of an action.
type ProcessFailure struct {
	Step     string
	ExitCode int
}

func (e *ProcessFailure) Error() string {
	return fmt.Sprintf("%s failed with return code %d", e.Step, e.ExitCode)
}

// PersistenceError is a history read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
