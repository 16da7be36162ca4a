package sandbox

import "github.com/google/uuid"

// IDGenerator produces session ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Cause says why a file was executed.
type Cause string

const (
	CauseBootstrap   Cause = "bootstrap"
	CausePrecomputed Cause = "precomputed"
	CauseOnDemand    Cause = "on-demand"
)

// Outcome is how a load ended.
type Outcome string

const (
	OutcomeLoaded   Outcome = "loaded"
	OutcomeNotFound Outcome = "not-found"
	OutcomeFault    Outcome = "fault"
)

// LoadEvent is one entry of a session's load history.
type LoadEvent struct {
	SessionID string  `json:"session_id"`
	Seq       int64   `json:"seq"`
	Identity  string  `json:"identity"`
	Cause     Cause   `json:"cause"`
	Outcome   Outcome `json:"outcome"`
	Detail    string  `json:"detail,omitempty"` // fault message, empty otherwise
}

// Recorder receives the load history of every session. Recording errors
// are logged and never interrupt execution.
type Recorder interface {
	BeginSession(id string, roots []string) error
	RecordLoad(ev LoadEvent) error
}

type nopRecorder struct{}

func (nopRecorder) BeginSession(string, []string) error { return nil }
func (nopRecorder) RecordLoad(LoadEvent) error          { return nil }
