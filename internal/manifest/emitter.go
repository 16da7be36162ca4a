// Package manifest writes an application's scripts, in load order, as a
// flat list of import statements for an external bundler.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/extract"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
	"github.com/sproutcore/sproutcore-sub001/internal/pipeline"
	"github.com/sproutcore/sproutcore-sub001/internal/sequencer"
)

// ErrWrite wraps failures to write the manifest file.
var ErrWrite = errors.New("write manifest")

// header is the first line of every generated manifest.
const header = "// Code generated by scload; DO NOT EDIT."

// Options describes one application build.
type Options struct {
	Root   string
	Mode   Mode
	Locale string // BCP-47; empty means DefaultLocale

	// Config defaults to config.Load(Root).
	Config *config.Config
	Logger *slog.Logger
}

// Plan is everything a manifest is rendered from.
type Plan struct {
	Root      string          `json:"root"`
	Mode      Mode            `json:"mode"`
	Locale    language.Tag    `json:"locale"`
	LocaleDir string          `json:"locale_dir,omitempty"`
	Order     ir.LoadOrder    `json:"order"`
	Resources []ir.SourceFile `json:"resources"`
	Path      string          `json:"path"` // where Emit writes

	Diagnostics []extract.Diagnostic `json:"diagnostics,omitempty"`
	Dropped     []ir.Ref             `json:"dropped,omitempty"`

	aggregate string
}

// Build scans and sequences opts.Root without writing anything.
func Build(opts Options) (*Plan, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	tag, err := ParseLocale(opts.Locale)
	if err != nil {
		return nil, err
	}
	root := ir.Identity(opts.Root, "")
	cfg := opts.Config
	if cfg == nil {
		if cfg, err = config.Load(root); err != nil {
			return nil, err
		}
	}
	rule, _ := cfg.Modes.Rule(string(mode))

	dir := localeDir(root, tag, cfg.LocaleSuffix)
	if dir == "" {
		logger.Debug("no locale directory", "root", root, "locale", tag.String())
	}
	out := filepath.Join(root, cfg.Manifest.Filename)

	project, err := pipeline.Load(pipeline.Options{
		Roots:        []string{root},
		Base:         root,
		ExcludeDirs:  rule.ExcludeDirs,
		ExcludeFiles: rule.ExcludeFiles,
		DirFilter:    localeFilter(dir, cfg.LocaleSuffix),
		SkipPaths:    []string{out},
		Config:       cfg,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	g := project.Graph
	partition := sequencer.PartitionBy(g.Files, DefaultClassifier(cfg, root, dir))
	order, err := sequencer.New(sequencer.WithLogger(logger)).Sequence(g, partition)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Root:        root,
		Mode:        mode,
		Locale:      tag,
		LocaleDir:   dir,
		Order:       order,
		Resources:   project.Resources,
		Path:        out,
		Diagnostics: project.Diagnostics,
		Dropped:     project.Dropped,
		aggregate:   cfg.Manifest.AggregateImport,
	}, nil
}

// Render returns the manifest text: the aggregate import if configured,
// one import per script in load order, then one per resource.
func (p *Plan) Render() []byte {
	var b bytes.Buffer
	b.WriteString(header)
	b.WriteByte('\n')
	if p.aggregate != "" {
		fmt.Fprintf(&b, "import '%s';\n", p.aggregate)
	}
	for _, f := range p.Order {
		fmt.Fprintf(&b, "import '%s';\n", p.importPath(f))
	}
	for _, f := range p.Resources {
		fmt.Fprintf(&b, "import '%s';\n", p.importPath(f))
	}
	return b.Bytes()
}

// RelativePaths lists the scripts in load order, relative to the root.
func (p *Plan) RelativePaths() []string {
	out := make([]string, len(p.Order))
	for i, f := range p.Order {
		out[i] = p.importPath(f)
	}
	return out
}

func (p *Plan) importPath(f ir.SourceFile) string {
	rel, err := filepath.Rel(p.Root, f.AbsolutePath)
	if err != nil {
		rel = f.RelativePath
	}
	return "./" + filepath.ToSlash(rel)
}

// Emit builds the plan and writes the manifest, replacing any previous one.
func Emit(opts Options) (*Plan, error) {
	plan, err := Build(opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(plan.Path, plan.Render(), 0644); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("manifest written",
		"file", plan.Path,
		"mode", plan.Mode,
		"count", len(plan.Order),
		"resources", len(plan.Resources))
	return plan, nil
}
