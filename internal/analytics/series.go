package analytics

import (
	"sort"

	"mintel/pkg/contracts/domain"
)

// prepareSeries groups records by (year, key) and sums values within each
// group. Points come back ascending by year; within a point, keys follow
// their first-appearance order across the full record sequence. A (year, key)
// combination with no contributing record is never materialized, so absent
// keys stay distinguishable from genuine zeros.
func prepareSeries(records []domain.MarketRecord, keyFor func(domain.MarketRecord) string) []domain.SeriesPoint {
	if len(records) == 0 {
		return nil
	}

	sums := make(map[int]map[string]float64)
	var years []int
	var keyOrder []string
	seen := make(map[string]bool)

	for _, r := range records {
		key := keyFor(r)
		if !seen[key] {
			seen[key] = true
			keyOrder = append(keyOrder, key)
		}
		byKey, ok := sums[r.Year]
		if !ok {
			byKey = make(map[string]float64)
			sums[r.Year] = byKey
			years = append(years, r.Year)
		}
		byKey[key] += r.Value
	}

	sort.Ints(years)

	points := make([]domain.SeriesPoint, 0, len(years))
	for _, year := range years {
		point := domain.NewSeriesPoint(year)
		for _, key := range keyOrder {
			if v, ok := sums[year][key]; ok {
				point.Add(key, v)
			}
		}
		points = append(points, point)
	}
	return points
}

// multiLevelKey returns the ungrouped (leaf granularity) series key for the
// active view mode: the segment label, the geography label, or the composite
// geography::segment pair in matrix mode.
func multiLevelKey(mode domain.ViewMode) func(domain.MarketRecord) string {
	switch mode {
	case domain.ViewModeGeography:
		return func(r domain.MarketRecord) string { return r.Geography }
	case domain.ViewModeMatrix:
		return func(r domain.MarketRecord) string {
			return r.Geography + domain.MatrixKeySeparator + r.Segment
		}
	default:
		return func(r domain.MarketRecord) string { return r.Segment }
	}
}

// SeriesNames derives the canonical series list from prepared points: every
// distinct non-year key, in first-seen order. Deriving names from points
// rather than raw labels keeps displayed series aligned with the aggregation
// granularity actually applied (rollup names, not leaf names, after a
// rollup).
func SeriesNames(points []domain.SeriesPoint) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range points {
		for _, key := range p.Keys() {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
		}
	}
	return names
}
