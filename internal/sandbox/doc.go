// Package sandbox executes a framework's scripts in dependency order inside
// an embedded JavaScript VM (github.com/dop251/goja).
//
// A Runtime is one session: one VM, one LoadedSet and the stack of files
// currently executing. Runtimes share nothing, so independent sessions may
// run concurrently; a single Runtime is not safe for concurrent use.
//
// Start runs any extra bootstrap files, then sequences and executes every
// framework root. Scripts pull in further files on demand by calling the
// directive function (sc_require by default), which resolves the reference
// the same way the extractor does and executes the file unless it already
// ran in this session. A file is registered as loaded immediately before
// it executes, so a file that refers back to itself while running is a
// no-op rather than a loop.
//
// Any fault leaves the Runtime poisoned: further execution returns
// ErrPoisoned until Reset discards the VM and starts over.
package sandbox
