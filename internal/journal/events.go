package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sproutcore/sproutcore-sub001/internal/sandbox"
)

// Session summarizes one recorded sandbox session.
type Session struct {
	ID          string   `json:"id"`
	Roots       []string `json:"roots"`
	ToolVersion string   `json:"tool_version"`
	Loaded      int      `json:"loaded"`
	NotFound    int      `json:"not_found"`
	Faults      int      `json:"faults"`
}

// RecordLoad appends one event. Events are keyed by (session, seq), so
// writing the same event twice is a no-op. The session must exist.
func (j *Journal) RecordLoad(ctx context.Context, ev sandbox.LoadEvent) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO load_events (session_id, seq, identity, cause, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		ev.SessionID,
		ev.Seq,
		ev.Identity,
		string(ev.Cause),
		string(ev.Outcome),
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("record load: %w", err)
	}
	return nil
}

// Sessions returns every session in the order it was begun.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.roots, s.tool_version,
			COALESCE(SUM(e.outcome = 'loaded'), 0),
			COALESCE(SUM(e.outcome = 'not-found'), 0),
			COALESCE(SUM(e.outcome = 'fault'), 0)
		FROM sessions s
		LEFT JOIN load_events e ON e.session_id = s.id
		GROUP BY s.ordinal
		ORDER BY s.ordinal ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		var roots string
		if err := rows.Scan(&s.ID, &roots, &s.ToolVersion, &s.Loaded, &s.NotFound, &s.Faults); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(roots), &s.Roots); err != nil {
			return nil, fmt.Errorf("decode roots of %s: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Events returns a session's events ordered by seq.
// Returns an empty slice (not nil) if the session recorded nothing.
func (j *Journal) Events(ctx context.Context, sessionID string) ([]sandbox.LoadEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, identity, cause, outcome, detail
		FROM load_events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return scanEvents(rows)
}

// History returns every recorded load of one file across sessions.
func (j *Journal) History(ctx context.Context, identity string) ([]sandbox.LoadEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT e.session_id, e.seq, e.identity, e.cause, e.outcome, e.detail
		FROM load_events e
		JOIN sessions s ON s.id = e.session_id
		WHERE e.identity = ?
		ORDER BY s.ordinal ASC, e.seq ASC
	`, identity)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]sandbox.LoadEvent, error) {
	defer rows.Close()

	events := []sandbox.LoadEvent{}
	for rows.Next() {
		var ev sandbox.LoadEvent
		var cause, outcome string
		if err := rows.Scan(&ev.SessionID, &ev.Seq, &ev.Identity, &cause, &outcome, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Cause = sandbox.Cause(cause)
		ev.Outcome = sandbox.Outcome(outcome)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Recorder adapts the journal to sandbox.Recorder. Every write uses ctx.
func (j *Journal) Recorder(ctx context.Context) sandbox.Recorder {
	return &recorder{j: j, ctx: ctx}
}

type recorder struct {
	j   *Journal
	ctx context.Context
}

func (r *recorder) BeginSession(id string, roots []string) error {
	return r.j.BeginSession(r.ctx, id, roots)
}

func (r *recorder) RecordLoad(ev sandbox.LoadEvent) error {
	return r.j.RecordLoad(r.ctx, ev)
}
