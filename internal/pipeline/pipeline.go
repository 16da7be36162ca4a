// Package pipeline turns project roots into a dependency graph: scan, then
// extract the directives of every script.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/extract"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
	"github.com/sproutcore/sproutcore-sub001/internal/scan"
)

// Options describes one load.
type Options struct {
	Roots []string

	// Base is the active framework root. When set, references resolve
	// against it instead of the declaring file's directory.
	Base string

	ExcludeDirs  []string
	ExcludeFiles []string
	DirFilter    func(name string) bool
	SkipPaths    []string

	// Config supplies the extension, directive token, strictness and
	// resource extensions. Defaults to config.Default().
	Config *config.Config
	Logger *slog.Logger
}

// Project is a scanned and extracted file set, ready to sequence.
type Project struct {
	Graph       *ir.Graph
	Resources   []ir.SourceFile
	Diagnostics []extract.Diagnostic

	// Dropped lists references into excluded directories or files. They
	// are removed from the graph instead of failing as missing.
	Dropped []ir.Ref
}

// Load scans opts.Roots and builds the graph.
func Load(opts Options) (*Project, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	result, err := scan.Scan(scan.Options{
		Roots:              opts.Roots,
		ExcludeDirs:        opts.ExcludeDirs,
		ExcludeFiles:       opts.ExcludeFiles,
		DirFilter:          opts.DirFilter,
		SkipPaths:          opts.SkipPaths,
		Extension:          cfg.Extension,
		ResourceExtensions: cfg.Resources,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("scanned roots",
		"roots", opts.Roots,
		"scripts", len(result.Scripts),
		"resources", len(result.Resources),
		"excluded", len(result.Excluded))

	g := ir.NewGraph(result.Scripts)
	for _, dir := range result.Dirs {
		g.AddDir(dir)
	}

	project := &Project{Graph: g, Resources: result.Resources}
	x := extract.New(cfg.Directive, cfg.Extension, cfg.StrictDirectives)
	base := ""
	if opts.Base != "" {
		base = ir.Identity(opts.Base, "")
	}

	for _, file := range g.Files {
		res, err := x.Extract(file.RelativePath, file.RawText, file.Dir(), base)
		for _, d := range res.Diagnostics {
			logger.Warn("malformed directive",
				"file", file.Identity(),
				"line", d.Line,
				"text", d.Text,
				"reason", d.Message)
		}
		project.Diagnostics = append(project.Diagnostics, res.Diagnostics...)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", file.RelativePath, err)
		}

		refs := make([]ir.Ref, 0, len(res.Refs))
		for _, ref := range res.Refs {
			if !g.Has(ref.Target) && result.IsExcluded(ref.Target) {
				logger.Debug("dropped reference into excluded path",
					"file", file.Identity(),
					"ref", ref.Raw)
				project.Dropped = append(project.Dropped, ref)
				continue
			}
			refs = append(refs, ref)
		}
		g.SetEdges(file.Identity(), refs)
	}

	return project, nil
}
