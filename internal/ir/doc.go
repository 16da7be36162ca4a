// Package ir provides the shared data model of the load pipeline.
//
// This package contains type definitions and identity rules only. The
// scanner, extractor, sequencer, sandbox and manifest packages all import
// ir; ir imports nothing internal.
//
// Key design constraints:
//   - A file's identity is its canonical absolute path (see Identity).
//     Graph keys, partition entries and LoadedSet members all use it.
//   - Scan order is preserved everywhere; nothing is sorted by map order.
//   - SourceFile values are immutable once scanned.
package ir
