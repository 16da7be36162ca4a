package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/journal"
	"github.com/sproutcore/sproutcore-sub001/internal/sandbox"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Bootstrap []string
	Get       []string
	Journal   string

	// SessionGenerator allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionGenerator sandbox.IDGenerator
}

// RunResult is the JSON payload of run.
type RunResult struct {
	Session string         `json:"session"`
	Loaded  []string       `json:"loaded"`
	Values  map[string]any `json:"values,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <framework-root>...",
		Short: "Execute frameworks in the sandbox",
		Long: `Execute one or more framework roots in an embedded JavaScript sandbox.

Bootstrap files run first, then each root in order: its bootstrap file,
every other script after the files it requires, then its main entry.
Scripts load further files on demand with sc_require. Use --get to print
values the scripts left behind, and --journal to record every load in a
SQLite database.

Example:
  scload run ./frameworks/foundation ./apps/todos --get Todos.VERSION
  scload run --journal ./loads.db --bootstrap ./env.js ./apps/todos`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSandbox(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Bootstrap, "bootstrap", nil, "extra files to run before the roots")
	cmd.Flags().StringArrayVar(&opts.Get, "get", nil, "dotted path to print after the run (repeatable)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite load journal (created if missing)")

	return cmd
}

func runSandbox(opts *RunOptions, roots []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := config.Load(roots[0])
	if err != nil {
		return failure(formatter, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var recorder sandbox.Recorder
	if opts.Journal != "" {
		j, err := journal.Open(opts.Journal)
		if err != nil {
			return failure(formatter, &journalError{err: err})
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		recorder = j.Recorder(ctx)
		logger.Debug("journal ready", "path", opts.Journal)
	}

	rt, err := sandbox.New(sandbox.Options{
		Roots:       roots,
		Bootstrap:   opts.Bootstrap,
		Config:      cfg,
		IDGenerator: opts.SessionGenerator,
		Recorder:    recorder,
		Logger:      logger,
	})
	if err != nil {
		return failure(formatter, err)
	}
	if err := rt.Start(); err != nil {
		return failure(formatter, err)
	}

	result := &RunResult{Session: rt.SessionID(), Loaded: rt.Loaded()}
	lines := []string{fmt.Sprintf("✓ Session %s: executed %d file(s)", result.Session, len(result.Loaded))}
	for _, path := range opts.Get {
		value, err := rt.Get(path)
		if err != nil {
			return failure(formatter, err)
		}
		if result.Values == nil {
			result.Values = make(map[string]any)
		}
		result.Values[path] = printable(value)
		lines = append(lines, fmt.Sprintf("%s = %s", path, render(value)))
	}

	for _, id := range result.Loaded {
		formatter.VerboseLog("loaded %s", id)
	}
	return formatter.SuccessLines(result, lines)
}

// printable returns v if it encodes as JSON, else its %v form. Exported
// script functions do not encode.
func printable(v any) any {
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
