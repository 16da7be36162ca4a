package cli

import (
	"errors"
	"fmt"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/extract"
	"github.com/sproutcore/sproutcore-sub001/internal/manifest"
	"github.com/sproutcore/sproutcore-sub001/internal/sandbox"
	"github.com/sproutcore/sproutcore-sub001/internal/scan"
	"github.com/sproutcore/sproutcore-sub001/internal/sequencer"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Root or file could not be read
	ErrCodeConfig       = "E003" // Invalid scload.yaml
	ErrCodeCycle        = "E004" // Dependency cycle
	ErrCodeMissingDep   = "E005" // Reference to a file that was not scanned
	ErrCodeMalformed    = "E006" // Malformed directive in strict mode
	ErrCodeFault        = "E007" // Script threw in the sandbox
	ErrCodeWriteFailed  = "E008" // Manifest write error
	ErrCodeJournal      = "E009" // Journal database error
	ErrCodeInvalidInput = "E010" // Bad mode, locale or path expression
)

// failure reports err through the formatter and converts it into an
// ExitError with the matching exit code.
func failure(f *OutputFormatter, err error) error {
	code, exit, details := classifyError(err)
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

func classifyError(err error) (code string, exit int, details any) {
	var (
		cycle     *sequencer.CycleError
		missing   *sequencer.MissingDependencyError
		fault     *sandbox.ExecutionFault
		malformed *extract.MalformedDirectiveError
		scanErr   *scan.Error
		cfgErr    *config.Error
		journal   *journalError
	)
	switch {
	case errors.As(err, &cycle):
		return ErrCodeCycle, ExitFailure, map[string]any{"chain": cycle.Chain}
	case errors.As(err, &missing):
		return ErrCodeMissingDep, ExitFailure, map[string]any{"from": missing.From, "ref": missing.Ref}
	case errors.As(err, &fault):
		return ErrCodeFault, ExitFailure, map[string]any{"file": fault.Identity}
	case errors.As(err, &malformed):
		return ErrCodeMalformed, ExitFailure, malformed.Diagnostics
	case errors.As(err, &scanErr):
		return ErrCodeScanError, ExitCommandError, map[string]any{"path": scanErr.Path, "op": scanErr.Op}
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, ExitCommandError, map[string]any{"path": cfgErr.Path}
	case errors.As(err, &journal):
		return ErrCodeJournal, ExitCommandError, nil
	case errors.Is(err, manifest.ErrUnknownMode), errors.Is(err, sandbox.ErrPathNotFound), errors.Is(err, manifest.ErrInvalidLocale):
		return ErrCodeInvalidInput, ExitCommandError, nil
	case errors.Is(err, manifest.ErrWrite):
		return ErrCodeWriteFailed, ExitCommandError, nil
	}
	return ErrCodeGeneric, ExitFailure, nil
}

// journalError marks failures of the journal database itself.
type journalError struct {
	err error
}

func (e *journalError) Error() string {
	return fmt.Sprintf("journal: %v", e.err)
}

func (e *journalError) Unwrap() error {
	return e.err
}
