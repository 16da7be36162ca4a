package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sproutcore/sproutcore-sub001/internal/journal"
	"github.com/sproutcore/sproutcore-sub001/internal/sandbox"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Session string
	File    string
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal <db>",
		Short: "Show recorded sandbox sessions",
		Long: `List the sessions recorded by "scload run --journal".

Without flags every session is listed with its load counts. --session
prints one session's loads in execution order; --file prints every
recorded load of one file across sessions.

Example:
  scload journal ./loads.db
  scload journal ./loads.db --session 0190f6f2-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "session id to show events for")
	cmd.Flags().StringVar(&opts.File, "file", "", "file identity to show history for")

	return cmd
}

func runJournal(opts *JournalOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Reading must not create an empty database.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return failure(formatter, &journalError{err: fmt.Errorf("database not found: %s", path)})
	}
	j, err := journal.Open(path)
	if err != nil {
		return failure(formatter, &journalError{err: err})
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.Session != "":
		events, err := j.Events(ctx, opts.Session)
		if err != nil {
			return failure(formatter, &journalError{err: err})
		}
		return formatter.SuccessLines(events, eventLines(events, false))
	case opts.File != "":
		events, err := j.History(ctx, opts.File)
		if err != nil {
			return failure(formatter, &journalError{err: err})
		}
		return formatter.SuccessLines(events, eventLines(events, true))
	}

	return listSessions(ctx, formatter, j)
}

func listSessions(ctx context.Context, formatter *OutputFormatter, j *journal.Journal) error {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return failure(formatter, &journalError{err: err})
	}
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, fmt.Sprintf("%s  loaded=%d not-found=%d faults=%d  %s",
			s.ID, s.Loaded, s.NotFound, s.Faults, strings.Join(s.Roots, ",")))
	}
	if len(lines) == 0 {
		lines = append(lines, "No sessions recorded")
	}
	return formatter.SuccessLines(sessions, lines)
}

func eventLines(events []sandbox.LoadEvent, withSession bool) []string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		line := fmt.Sprintf("%4d  %-11s  %-9s  %s", ev.Seq, ev.Cause, ev.Outcome, ev.Identity)
		if withSession {
			line = ev.SessionID + "  " + line
		}
		lines = append(lines, line)
	}
	return lines
}
