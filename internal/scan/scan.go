// Package scan walks project roots and loads script and resource files.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// Options controls a scan.
type Options struct {
	// Roots are walked in order. A file reachable from two roots is
	// reported once, under the first.
	Roots []string

	// ExcludeDirs are directory names skipped together with their subtree.
	// Roots themselves are never excluded.
	ExcludeDirs []string

	// ExcludeFiles are glob patterns matched against a file's base name.
	ExcludeFiles []string

	// DirFilter, when set, is consulted for every directory below a root;
	// returning false skips the subtree.
	DirFilter func(name string) bool

	// SkipPaths are files never collected, e.g. a previously generated
	// manifest inside the root.
	SkipPaths []string

	// Extension marks script files. Defaults to ir.DefaultExtension.
	Extension string

	// ResourceExtensions mark non-script files collected alongside.
	ResourceExtensions []string
}

// Result holds everything a scan found.
type Result struct {
	Scripts   []ir.SourceFile
	Resources []ir.SourceFile

	// Dirs are the directories that were descended into.
	Dirs []string

	// Excluded are the directories and files left out by the options.
	// References pointing into them are dropped rather than reported
	// missing.
	Excluded []string
}

// IsExcluded reports whether path is, or lies below, an excluded entry.
func (r *Result) IsExcluded(path string) bool {
	path = filepath.Clean(path)
	for _, ex := range r.Excluded {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Error is the ScanError: a root or a file below it could not be read.
// Any Error aborts the scan, since a partial file set would sequence wrongly.
type Error struct {
	Path string
	Op   string // "stat", "walk", "read", "match"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scan %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsScanError reports whether err is, or wraps, an *Error.
func IsScanError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

// Scan walks every root depth-first in lexical order.
func Scan(opts Options) (*Result, error) {
	ext := opts.Extension
	if ext == "" {
		ext = ir.DefaultExtension
	}
	for _, pattern := range opts.ExcludeFiles {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, &Error{Path: pattern, Op: "match", Err: err}
		}
	}

	w := &walker{
		opts:     opts,
		ext:      ext,
		exclude:  toSet(opts.ExcludeDirs),
		skip:     make(map[string]bool, len(opts.SkipPaths)),
		resource: toSet(opts.ResourceExtensions),
		seen:     make(map[string]bool),
		result:   &Result{},
	}
	for _, p := range opts.SkipPaths {
		w.skip[ir.Identity(p, "")] = true
	}

	for _, root := range opts.Roots {
		if err := w.walkRoot(root); err != nil {
			return nil, err
		}
	}
	return w.result, nil
}

type walker struct {
	opts     Options
	ext      string
	exclude  map[string]bool
	skip     map[string]bool
	resource map[string]bool
	seen     map[string]bool
	result   *Result
}

func (w *walker) walkRoot(root string) error {
	abs := ir.Identity(root, "")
	info, err := os.Stat(abs)
	if err != nil {
		return &Error{Path: root, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return &Error{Path: root, Op: "stat", Err: fmt.Errorf("not a directory")}
	}

	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &Error{Path: path, Op: "walk", Err: err}
		}
		if d.IsDir() {
			if path != abs && !w.includeDir(d.Name()) {
				w.result.Excluded = append(w.result.Excluded, ir.Identity(path, ""))
				return filepath.SkipDir
			}
			w.result.Dirs = append(w.result.Dirs, ir.Identity(path, ""))
			return nil
		}
		return w.visitFile(abs, path, d)
	})
}

func (w *walker) includeDir(name string) bool {
	if w.exclude[name] {
		return false
	}
	if w.opts.DirFilter != nil && !w.opts.DirFilter(name) {
		return false
	}
	return true
}

func (w *walker) visitFile(root, path string, d fs.DirEntry) error {
	if !d.Type().IsRegular() {
		return nil
	}
	id := ir.Identity(path, "")
	if w.skip[id] || w.seen[id] {
		return nil
	}

	ext := filepath.Ext(d.Name())
	isScript := ext == w.ext
	if !isScript && !w.resource[ext] {
		return nil
	}
	for _, pattern := range w.opts.ExcludeFiles {
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			w.result.Excluded = append(w.result.Excluded, id)
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Path: path, Op: "read", Err: err}
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = d.Name()
	}
	w.seen[id] = true

	file := ir.SourceFile{
		AbsolutePath: id,
		RelativePath: rel,
		RawText:      string(data),
		Extension:    ext,
	}
	if isScript {
		w.result.Scripts = append(w.result.Scripts, file)
	} else {
		w.result.Resources = append(w.result.Resources, file)
	}
	return nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
