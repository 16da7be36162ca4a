// Package journal records sandbox load history in SQLite.
//
// Each sandbox session is one row in sessions; every file it executed or
// failed to find is one row in load_events. The log is append-only and
// ordered by the session's logical seq, never by timestamps, so two runs
// of the same framework produce identical histories.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Every event belongs to a recorded session
package journal
