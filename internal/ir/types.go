package ir

import "path/filepath"

// SourceFile is one scanned file with its raw text loaded.
type SourceFile struct {
	AbsolutePath string `json:"absolute_path"` // canonical, see Identity
	RelativePath string `json:"relative_path"` // relative to the root it was found under
	RawText      string `json:"-"`
	Extension    string `json:"extension"`
}

// Identity returns the file's canonical identity.
func (f SourceFile) Identity() string {
	return f.AbsolutePath
}

// Dir returns the directory holding the file.
func (f SourceFile) Dir() string {
	return filepath.Dir(f.AbsolutePath)
}

// Ref is a normalized logical reference taken from a dependency directive.
type Ref struct {
	Raw    string `json:"raw"`    // argument as written in the source
	Target string `json:"target"` // file identity, or folder identity when Folder is set
	Folder bool   `json:"folder,omitempty"`
}

// Partition pins files to the front or back of a LoadOrder.
// Every file in neither list belongs to the implicit middle.
type Partition struct {
	Lead  []string `json:"lead"`
	Trail []string `json:"trail"`
}

// LoadOrder is a dependency-respecting sequence; each file appears once.
type LoadOrder []SourceFile

// Identities returns the identities in order.
func (o LoadOrder) Identities() []string {
	ids := make([]string, len(o))
	for i, f := range o {
		ids[i] = f.Identity()
	}
	return ids
}

// IndexOf returns the position of id in the order, or -1.
func (o LoadOrder) IndexOf(id string) int {
	for i, f := range o {
		if f.Identity() == id {
			return i
		}
	}
	return -1
}
