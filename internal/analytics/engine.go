// Package analytics is the filtering/aggregation core of the dashboard: it
// turns a raw year x geography x segment dataset plus a FilterCriteria
// snapshot into chart-ready series. The whole pipeline is synchronous and
// side-effect free; every computation runs to completion over immutable
// inputs.
package analytics

import (
	"mintel/internal/dataset"
	"mintel/internal/taxonomy"
	"mintel/pkg/contracts/domain"
)

// Engine composes the filter and series-preparation stages with the two
// taxonomy resolvers.
type Engine struct {
	geo *taxonomy.GeographyResolver
	seg *taxonomy.SegmentResolver
}

// NewEngine creates an engine over the given resolvers.
func NewEngine(geo *taxonomy.GeographyResolver, seg *taxonomy.SegmentResolver) *Engine {
	return &Engine{geo: geo, seg: seg}
}

// ComputeChartData runs the full pipeline: partition selection, filtering,
// series preparation (level-aggregated when an aggregation level is in
// effect, leaf granularity otherwise) and series-name extraction. An empty
// dataset or a fully-excluding filter yields empty points and names, never an
// error.
func (e *Engine) ComputeChartData(ds *dataset.Dataset, c domain.FilterCriteria) domain.ChartData {
	filtered := FilterRecords(ds.Records(c.DataType), c)

	var points []domain.SeriesPoint
	if level, ok := aggregationLevel(c); ok {
		points = prepareSeries(filtered, e.rollupKey(ds, c, level))
	} else {
		points = prepareSeries(filtered, multiLevelKey(c.ViewMode))
	}

	// Empty results render as empty arrays, never null.
	if points == nil {
		points = []domain.SeriesPoint{}
	}
	names := SeriesNames(points)
	if names == nil {
		names = []string{}
	}

	return domain.ChartData{
		Points:      points,
		SeriesNames: names,
	}
}

// aggregationLevel reports whether level-aggregated preparation applies.
// Matrix mode always keeps leaf granularity: its series axis is the
// geography/segment cross product, which has no single rollup dimension.
func aggregationLevel(c domain.FilterCriteria) (int, bool) {
	if c.AggregationLevel == nil || c.ViewMode == domain.ViewModeMatrix {
		return 0, false
	}
	return *c.AggregationLevel, true
}

// rollupKey returns the level-aggregated grouping key for the active view
// mode: the geography's ancestor in the resolved reference tree, or the
// segment's ancestor in the segment taxonomy.
func (e *Engine) rollupKey(ds *dataset.Dataset, c domain.FilterCriteria, level int) func(domain.MarketRecord) string {
	if c.ViewMode == domain.ViewModeGeography {
		resolution := e.geo.Resolve(ds.Geographies())
		return func(r domain.MarketRecord) string {
			return resolution.AncestorAt(r.Geography, level)
		}
	}
	return func(r domain.MarketRecord) string {
		return e.seg.RollUp(r.Segment, level)
	}
}
