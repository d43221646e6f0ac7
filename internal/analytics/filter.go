package analytics

import (
	"mintel/pkg/contracts/domain"
)

// EffectiveSegmentType derives the segment type a computation actually
// filters on. Geography-oriented views substitute the fixed "By Region"
// segment type, but only while the user has made no explicit segment
// selection; once segments are selected the criteria's own segment type is
// honored so the selection stays meaningful.
func EffectiveSegmentType(c domain.FilterCriteria) string {
	if c.ViewMode == domain.ViewModeGeography && len(c.Segments) == 0 {
		return domain.SegmentTypeByRegion
	}
	return c.SegmentType
}

// FilterRecords applies a FilterCriteria snapshot to raw records, returning
// the matching records in their original relative order. An empty geography
// or segment selection places no restriction on that dimension. The year
// range is inclusive on both ends, with a reversed range swapped first.
func FilterRecords(records []domain.MarketRecord, c domain.FilterCriteria) []domain.MarketRecord {
	startYear, endYear := c.NormalizedYearRange()
	geographies := toSet(c.Geographies)
	segments := toSet(c.Segments)
	segmentType := EffectiveSegmentType(c)

	// Advanced selections are exact (type, name) pairs and replace the
	// plain segment and segment-type clauses when present.
	advanced := make(map[domain.SegmentSelection]bool, len(c.AdvancedSegments))
	for _, sel := range c.AdvancedSegments {
		advanced[sel] = true
	}

	var filtered []domain.MarketRecord
	for _, r := range records {
		if r.Year < startYear || r.Year > endYear {
			continue
		}
		if len(geographies) > 0 && !geographies[r.Geography] {
			continue
		}
		if len(advanced) > 0 {
			if !advanced[domain.SegmentSelection{Type: r.SegmentType, Name: r.Segment}] {
				continue
			}
		} else {
			if len(segments) > 0 && !segments[r.Segment] {
				continue
			}
			if r.SegmentType != segmentType {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
