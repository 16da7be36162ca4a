package manifest

import (
	"path/filepath"
	"strings"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
	"github.com/sproutcore/sproutcore-sub001/internal/sequencer"
)

// Lead and trail ranks of the default classifier.
const (
	rankBootstrap = 0
	rankMetadata  = 1
	rankStrings   = 2

	rankPage = 0
	rankMain = 1
)

// DefaultClassifier places an application's files:
//
//	lead:  bootstrap, metadata, locale strings.js and layout.js
//	trail: locale page files, then the main entry
//
// Bootstrap, metadata and main only count at the project root. locale is
// the active locale directory name and may be empty.
func DefaultClassifier(cfg *config.Config, root, locale string) sequencer.Classifier {
	at := func(name string) string {
		if name == "" {
			return ""
		}
		return ir.Identity(filepath.Join(root, name), "")
	}
	bootstrap, metadata, main := at(cfg.Bootstrap), at(cfg.Metadata), at(cfg.Main)
	localeRoot := ""
	if locale != "" {
		localeRoot = ir.Identity(filepath.Join(root, locale), "")
	}

	return func(f ir.SourceFile) sequencer.Placement {
		id := f.Identity()
		switch id {
		case bootstrap:
			return sequencer.Placement{Zone: sequencer.Lead, Rank: rankBootstrap}
		case metadata:
			return sequencer.Placement{Zone: sequencer.Lead, Rank: rankMetadata}
		case main:
			return sequencer.Placement{Zone: sequencer.Trail, Rank: rankMain}
		}
		if localeRoot == "" || f.Dir() != localeRoot {
			return sequencer.Placement{}
		}
		name := filepath.Base(id)
		switch {
		case name == "strings"+cfg.Extension, name == "layout"+cfg.Extension:
			return sequencer.Placement{Zone: sequencer.Lead, Rank: rankStrings}
		case cfg.PageSuffix != "" && strings.HasSuffix(name, cfg.PageSuffix):
			return sequencer.Placement{Zone: sequencer.Trail, Rank: rankPage}
		}
		return sequencer.Placement{}
	}
}
