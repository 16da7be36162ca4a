package sequencer

import (
	"errors"
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Chain is the in-progress stack at
// detection time followed by the re-entered identity, so the first and
// last entries name the same file.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Chain, " → "))
}

// Members returns the files in the cycle without the closing repeat.
func (e *CycleError) Members() []string {
	if len(e.Chain) == 0 {
		return nil
	}
	last := e.Chain[len(e.Chain)-1]
	for i, id := range e.Chain {
		if id == last {
			return e.Chain[i : len(e.Chain)-1]
		}
	}
	return e.Chain
}

// MissingDependencyError reports a reference that names no scanned file or
// folder. From is empty when the reference came from a partition list.
type MissingDependencyError struct {
	From string
	Ref  string
}

func (e *MissingDependencyError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("missing dependency: partition entry %s was not scanned", e.Ref)
	}
	return fmt.Sprintf("missing dependency: %s requires %s, which was not scanned", e.From, e.Ref)
}

// IsCycleError returns true if err is, or wraps, a *CycleError.
func IsCycleError(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

// IsMissingDependency returns true if err is, or wraps, a *MissingDependencyError.
func IsMissingDependency(err error) bool {
	var me *MissingDependencyError
	return errors.As(err, &me)
}
