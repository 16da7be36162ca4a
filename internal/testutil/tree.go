package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteTree creates files under a fresh temp directory and returns its
// path. Keys are slash-separated paths relative to the root; a key ending
// in "/" creates an empty directory.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	AddFiles(t, root, files)
	return root
}

// AddFiles writes files below an existing root, in sorted key order.
func AddFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rel := range keys {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatalf("mkdir %s: %v", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(files[rel]), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// Path joins a slash-separated relative path onto root.
func Path(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
