package sandbox

import (
	"path/filepath"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
	"github.com/sproutcore/sproutcore-sub001/internal/sequencer"
)

// DefaultClassifier places the root's bootstrap file first and its main
// entry last. Everything else stays in the middle.
func DefaultClassifier(cfg *config.Config) func(root string) sequencer.Classifier {
	return func(root string) sequencer.Classifier {
		bootstrap := ir.Identity(filepath.Join(root, cfg.Bootstrap), "")
		main := ""
		if cfg.Main != "" {
			main = ir.Identity(filepath.Join(root, cfg.Main), "")
		}
		return func(f ir.SourceFile) sequencer.Placement {
			switch f.Identity() {
			case bootstrap:
				return sequencer.Placement{Zone: sequencer.Lead}
			case main:
				return sequencer.Placement{Zone: sequencer.Trail}
			}
			return sequencer.Placement{}
		}
	}
}

// forceLead moves id to the front of the lead list.
func forceLead(p ir.Partition, id string) ir.Partition {
	out := ir.Partition{Lead: []string{id}}
	for _, l := range p.Lead {
		if l != id {
			out.Lead = append(out.Lead, l)
		}
	}
	for _, t := range p.Trail {
		if t != id {
			out.Trail = append(out.Trail, t)
		}
	}
	return out
}
