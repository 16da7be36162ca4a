package sequencer

import (
	"sort"

	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// Zone is where a classifier pins a file.
type Zone int

const (
	Middle Zone = iota
	Lead
	Trail
)

func (z Zone) String() string {
	switch z {
	case Lead:
		return "lead"
	case Trail:
		return "trail"
	default:
		return "middle"
	}
}

// Placement is a classifier's verdict. Within a zone, lower ranks come
// first; equal ranks keep scan order.
type Placement struct {
	Zone Zone
	Rank int
}

// Classifier decides the placement of one file. The runtime and the
// manifest emitter each supply their own.
type Classifier func(ir.SourceFile) Placement

// PartitionBy classifies files (given in scan order) into lead and trail
// lists.
func PartitionBy(files []ir.SourceFile, classify Classifier) ir.Partition {
	type ranked struct {
		id   string
		rank int
	}
	var lead, trail []ranked
	for _, f := range files {
		p := classify(f)
		switch p.Zone {
		case Lead:
			lead = append(lead, ranked{f.Identity(), p.Rank})
		case Trail:
			trail = append(trail, ranked{f.Identity(), p.Rank})
		}
	}

	byRank := func(items []ranked) []string {
		sort.SliceStable(items, func(i, j int) bool { return items[i].rank < items[j].rank })
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.id
		}
		return ids
	}
	return ir.Partition{Lead: byRank(lead), Trail: byRank(trail)}
}
