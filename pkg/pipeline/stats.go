package pipeline

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dxfscope/dxfscope/pkg/dxf"
)

// InchSanityLimit is the extent width or height above which an inch-unit
// drawing is suspected of actually being in millimeters. Real drawings in
// inches rarely exceed it; millimeter drawings mislabeled as inches almost
// always do.
const InchSanityLimit = 5000.0

// Stats summarizes one drawing. The JSON field names are the stable
// summary.json contract.
type Stats struct {
	RunID         string  `json:"run_id"`
	FormatVersion string  `json:"dxfversion"`
	HandSeed      string  `json:"handseed"`
	UnitCode      int     `json:"insunits"`
	Extents       Extents `json:"extents"`

	TotalEntities int            `json:"total_entities_modelspace"`
	EntityCounts  map[string]int `json:"entity_counts"`
	LayerCounts   map[string]int `json:"layer_counts"`

	// Layers and Blocks are the declared tables, sorted, independent of
	// whether any entity references them.
	Layers []string `json:"layers"`
	Blocks []string `json:"blocks"`

	// BlockInsertCounts has an entry for every declared block; blocks that
	// are never inserted count zero.
	BlockInsertCounts map[string]int `json:"insert_counts_by_block"`
}

// CollectStats walks the modelspace once and counts entities by type, by
// layer, and INSERTs by referenced block. It also runs the unit sanity
// check: an inch-unit drawing larger than InchSanityLimit in either
// direction gets an advisory warning, nothing more.
func CollectStats(doc *dxf.Document, extents Extents, logger *log.Logger) Stats {
	s := Stats{
		RunID:             uuid.NewString(),
		FormatVersion:     doc.Version,
		HandSeed:          doc.Header.HandSeed,
		UnitCode:          doc.Header.InsUnits,
		Extents:           extents,
		EntityCounts:      make(map[string]int),
		LayerCounts:       make(map[string]int),
		BlockInsertCounts: make(map[string]int),
	}

	inserted := make(map[string]int)
	for i := range doc.Entities {
		e := &doc.Entities[i]
		s.EntityCounts[e.Type]++
		s.LayerCounts[e.Layer]++
		s.TotalEntities++
		if e.Type == "INSERT" && e.Block != "" {
			inserted[e.Block]++
		}
	}

	for _, l := range doc.Layers {
		s.Layers = append(s.Layers, l.Name)
	}
	sort.Strings(s.Layers)

	for _, b := range doc.Blocks {
		s.Blocks = append(s.Blocks, b.Name)
		s.BlockInsertCounts[b.Name] = inserted[b.Name]
	}
	sort.Strings(s.Blocks)

	if s.UnitCode == dxf.UnitInches && extents.Size != nil {
		w, h := extents.Size[0], extents.Size[1]
		if w > InchSanityLimit || h > InchSanityLimit {
			logger.Warn("INSUNITS says inches but the extent is very large; the drawing is probably in millimeters",
				"width", w, "height", h)
		}
	}
	return s
}
