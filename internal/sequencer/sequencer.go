package sequencer

import (
	"log/slog"

	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// Sequencer produces LoadOrders. It holds no state between calls.
type Sequencer struct {
	logger *slog.Logger
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the logger used for partition-crossing warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// New creates a Sequencer.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sequence orders every file of g so that dependencies precede dependents,
// lead entries come first and trail entries come last.
func (s *Sequencer) Sequence(g *ir.Graph, p ir.Partition) (ir.LoadOrder, error) {
	w := &walk{
		graph:    g,
		logger:   s.logger,
		inOutput: make(map[string]bool, len(g.Files)),
		onStack:  make(map[string]bool),
		zone:     make(map[string]Zone, len(p.Lead)+len(p.Trail)),
	}
	for _, id := range p.Lead {
		w.zone[id] = Lead
	}
	for _, id := range p.Trail {
		w.zone[id] = Trail
	}

	w.pass = Lead
	for _, id := range p.Lead {
		if err := w.visit(ir.Ref{Raw: id, Target: id}, ""); err != nil {
			return nil, err
		}
	}

	w.pass = Middle
	for _, f := range g.Files {
		if _, pinned := w.zone[f.Identity()]; pinned {
			continue
		}
		if err := w.visit(ir.Ref{Raw: f.RelativePath, Target: f.Identity()}, ""); err != nil {
			return nil, err
		}
	}

	w.pass = Trail
	for _, id := range p.Trail {
		if err := w.visit(ir.Ref{Raw: id, Target: id}, ""); err != nil {
			return nil, err
		}
	}

	return w.output, nil
}

type walk struct {
	graph  *ir.Graph
	logger *slog.Logger
	pass   Zone
	zone   map[string]Zone

	output     ir.LoadOrder
	inOutput   map[string]bool
	inProgress []string
	onStack    map[string]bool
}

func (w *walk) visit(ref ir.Ref, from string) error {
	if ref.Folder {
		files, ok := w.graph.FolderContents(ref.Target)
		if !ok {
			return &MissingDependencyError{From: from, Ref: ref.Target}
		}
		for _, f := range files {
			if err := w.visit(ir.Ref{Raw: ref.Raw, Target: f.Identity()}, from); err != nil {
				return err
			}
		}
		return nil
	}

	id := ref.Target
	if w.inOutput[id] {
		return nil
	}
	if w.onStack[id] {
		chain := make([]string, 0, len(w.inProgress)+1)
		chain = append(chain, w.inProgress...)
		return &CycleError{Chain: append(chain, id)}
	}
	file, ok := w.graph.Lookup(id)
	if !ok {
		return &MissingDependencyError{From: from, Ref: id}
	}

	w.inProgress = append(w.inProgress, id)
	w.onStack[id] = true

	for _, dep := range w.graph.Edges[id] {
		if err := w.visit(dep, id); err != nil {
			return err
		}
	}

	w.inProgress = w.inProgress[:len(w.inProgress)-1]
	delete(w.onStack, id)

	w.emit(file)
	return nil
}

func (w *walk) emit(f ir.SourceFile) {
	id := f.Identity()
	if z := w.zone[id]; z != w.pass {
		w.logger.Warn("dependency moved file across partition",
			"file", f.RelativePath, "placement", z.String(), "emitted_in", w.pass.String())
	}
	w.output = append(w.output, f)
	w.inOutput[id] = true
}
