package sandbox

import (
	"errors"
	"fmt"
)

// ErrPoisoned is returned by every execution entry point after a failure.
// Only Reset clears it.
var ErrPoisoned = errors.New("sandbox poisoned by earlier failure")

// ErrPathNotFound is returned by Get and Set when a segment of a dotted
// path is missing or not an object.
var ErrPathNotFound = errors.New("path not found")

// ExecutionFault is a script that threw while running. Identity names the
// innermost failing file, even when the fault surfaced through a chain of
// on-demand loads.
type ExecutionFault struct {
	Identity string
	Cause    error
}

func (e *ExecutionFault) Error() string {
	return fmt.Sprintf("execution fault in %s: %v", e.Identity, e.Cause)
}

func (e *ExecutionFault) Unwrap() error {
	return e.Cause
}

// IsExecutionFault returns true if err is, or wraps, an *ExecutionFault.
func IsExecutionFault(err error) bool {
	var ef *ExecutionFault
	return errors.As(err, &ef)
}
