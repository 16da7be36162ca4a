package ir

import "path/filepath"

// Graph is the DependencyGraph: every scanned script, in scan order, with
// the references each one declares in directive order.
type Graph struct {
	Files []SourceFile
	Edges map[string][]Ref

	index map[string]int
	dirs  map[string][]int
}

// NewGraph indexes files by identity and by containing directory.
// Duplicate identities keep their first position.
func NewGraph(files []SourceFile) *Graph {
	g := &Graph{
		Edges: make(map[string][]Ref),
		index: make(map[string]int, len(files)),
		dirs:  make(map[string][]int),
	}
	for _, f := range files {
		if _, dup := g.index[f.Identity()]; dup {
			continue
		}
		pos := len(g.Files)
		g.Files = append(g.Files, f)
		g.index[f.Identity()] = pos
		dir := FolderIdentity(f.Dir())
		g.dirs[dir] = append(g.dirs[dir], pos)
	}
	return g
}

// AddDir registers a scanned directory so that folder references to it
// resolve even when it holds no scripts directly.
func (g *Graph) AddDir(path string) {
	dir := FolderIdentity(path)
	if _, ok := g.dirs[dir]; !ok {
		g.dirs[dir] = nil
	}
}

// SetEdges replaces the references declared by id.
func (g *Graph) SetEdges(id string, refs []Ref) {
	g.Edges[id] = refs
}

// Lookup returns the scanned file with the given identity.
func (g *Graph) Lookup(id string) (SourceFile, bool) {
	pos, ok := g.index[id]
	if !ok {
		return SourceFile{}, false
	}
	return g.Files[pos], true
}

// Has reports whether id is a scanned file.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// FolderContents returns the files directly inside folder, in scan order.
// The boolean is false when the folder was never scanned.
func (g *Graph) FolderContents(folder string) ([]SourceFile, bool) {
	positions, ok := g.dirs[FolderIdentity(filepath.Clean(folder))]
	if !ok {
		return nil, false
	}
	files := make([]SourceFile, len(positions))
	for i, pos := range positions {
		files[i] = g.Files[pos]
	}
	return files, true
}
