package ir

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Identity canonicalizes path into a file identity: absolute, cleaned,
// NFC-normalized, with ext appended when the path does not already end in
// it. Passing an empty ext leaves the extension alone.
//
// Every component that keys on files must go through Identity so that
// "widgets/button" and "widgets/button.js" name the same file.
func Identity(path, ext string) string {
	p := canonicalPath(path)
	if ext != "" && !strings.HasSuffix(p, ext) {
		p += ext
	}
	return p
}

// FolderIdentity canonicalizes a directory path and terminates it with a
// separator, which marks it as a folder reference.
func FolderIdentity(path string) string {
	p := canonicalPath(path)
	if !strings.HasSuffix(p, string(filepath.Separator)) {
		p += string(filepath.Separator)
	}
	return p
}

// IsFolder reports whether a raw reference names a folder.
func IsFolder(raw string) bool {
	return strings.HasSuffix(raw, "/") || strings.HasSuffix(raw, string(filepath.Separator))
}

func canonicalPath(path string) string {
	p := filepath.Clean(norm.NFC.String(path))
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}
