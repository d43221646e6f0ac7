package taxonomy

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed segments.yaml
var segmentsYAML []byte

type segmentTable struct {
	Segments []struct {
		Path []string `yaml:"path,flow"`
	} `yaml:"segments"`
}

// segmentEntry records where a label sits in the segment taxonomy: its
// root-first ancestry path and its own 1-based depth within it.
type segmentEntry struct {
	path  []string
	depth int
}

// SegmentResolver rolls leaf segment labels up to ancestor labels at a given
// aggregation level. It is a pure, total lookup over the fixed segment
// taxonomy: labels outside the taxonomy resolve to themselves.
type SegmentResolver struct {
	entries map[string]segmentEntry
}

// NewSegmentResolver builds a resolver over the embedded segment taxonomy.
func NewSegmentResolver() (*SegmentResolver, error) {
	var table segmentTable
	if err := yaml.Unmarshal(segmentsYAML, &table); err != nil {
		return nil, fmt.Errorf("parse segment reference table: %w", err)
	}
	if len(table.Segments) == 0 {
		return nil, fmt.Errorf("segment reference table is empty")
	}

	entries := make(map[string]segmentEntry)
	for _, seg := range table.Segments {
		for depth, name := range seg.Path {
			norm := NormalizeLabel(name)
			if _, ok := entries[norm]; ok {
				continue
			}
			entries[norm] = segmentEntry{path: seg.Path, depth: depth + 1}
		}
	}
	return &SegmentResolver{entries: entries}, nil
}

// RollUp returns the label's ancestor at aggregation level (1 = coarsest).
// Labels already at or coarser than the level, and labels outside the
// taxonomy, are returned unchanged.
func (s *SegmentResolver) RollUp(label string, level int) string {
	if level < 1 {
		return label
	}
	entry, ok := s.entries[NormalizeLabel(label)]
	if !ok || entry.depth <= level {
		return label
	}
	return entry.path[level-1]
}

// Levels returns the ancestry path for a known label, root first, or nil for
// labels outside the taxonomy. Used by the filter widgets to offer
// aggregation levels.
func (s *SegmentResolver) Levels(label string) []string {
	entry, ok := s.entries[NormalizeLabel(label)]
	if !ok {
		return nil
	}
	return entry.path[:entry.depth]
}

// MaxDepth returns the deepest level present in the taxonomy.
func (s *SegmentResolver) MaxDepth() int {
	max := 0
	for _, entry := range s.entries {
		if entry.depth > max {
			max = entry.depth
		}
	}
	return max
}
