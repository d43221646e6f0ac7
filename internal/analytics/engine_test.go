package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintel/internal/dataset"
	"mintel/internal/taxonomy"
	"mintel/pkg/contracts/domain"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	geo, err := taxonomy.NewGeographyResolver()
	require.NoError(t, err)
	seg, err := taxonomy.NewSegmentResolver()
	require.NoError(t, err)
	return NewEngine(geo, seg)
}

func newDataset(records []domain.MarketRecord, geographies ...string) *dataset.Dataset {
	ds := &dataset.Dataset{ID: "test-dataset"}
	ds.Data.Value.GeographySegmentMatrix = records
	ds.Dimensions.Geographies.AllGeographies = geographies
	return ds
}

func scenarioRecords() []domain.MarketRecord {
	return []domain.MarketRecord{
		{Year: 2020, Geography: "U.S.", Segment: "Tablets", SegmentType: "By Type", Value: 10},
		{Year: 2020, Geography: "Canada", Segment: "Tablets", SegmentType: "By Type", Value: 5},
		{Year: 2021, Geography: "U.S.", Segment: "Tablets", SegmentType: "By Type", Value: 12},
	}
}

func scenarioCriteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		DataType:    domain.DataTypeValue,
		ViewMode:    domain.ViewModeSegment,
		SegmentType: "By Type",
		YearRange:   [2]int{2020, 2021},
	}
}

func pointValue(t *testing.T, p domain.SeriesPoint, key string) float64 {
	t.Helper()
	v, ok := p.Value(key)
	require.True(t, ok, "expected key %q in year %d", key, p.Year)
	return v
}

func TestComputeChartDataSegmentModeNoAggregation(t *testing.T) {
	engine := newEngine(t)
	ds := newDataset(scenarioRecords(), "U.S.", "Canada")

	data := engine.ComputeChartData(ds, scenarioCriteria())

	require.Len(t, data.Points, 2)
	assert.Equal(t, 2020, data.Points[0].Year)
	assert.Equal(t, 2021, data.Points[1].Year)
	assert.InDelta(t, 15, pointValue(t, data.Points[0], "Tablets"), 1e-9)
	assert.InDelta(t, 12, pointValue(t, data.Points[1], "Tablets"), 1e-9)
	assert.Equal(t, []string{"Tablets"}, data.SeriesNames)
}

func TestComputeChartDataSegmentRollupLevel2(t *testing.T) {
	engine := newEngine(t)
	ds := newDataset(scenarioRecords(), "U.S.", "Canada")

	criteria := scenarioCriteria()
	level := 2
	criteria.AggregationLevel = &level

	data := engine.ComputeChartData(ds, criteria)

	require.Len(t, data.Points, 2)
	assert.InDelta(t, 15, pointValue(t, data.Points[0], "Solid Dosage"), 1e-9)
	assert.InDelta(t, 12, pointValue(t, data.Points[1], "Solid Dosage"), 1e-9)
	assert.Equal(t, []string{"Solid Dosage"}, data.SeriesNames)

	// The leaf name never leaks into rollup output.
	_, ok := data.Points[0].Value("Tablets")
	assert.False(t, ok)
}

func TestComputeChartDataMatrixMode(t *testing.T) {
	engine := newEngine(t)
	ds := newDataset(scenarioRecords(), "U.S.", "Canada")

	criteria := scenarioCriteria()
	criteria.ViewMode = domain.ViewModeMatrix

	data := engine.ComputeChartData(ds, criteria)

	require.Len(t, data.Points, 2)
	assert.InDelta(t, 10, pointValue(t, data.Points[0], "U.S.::Tablets"), 1e-9)
	assert.InDelta(t, 5, pointValue(t, data.Points[0], "Canada::Tablets"), 1e-9)
	assert.InDelta(t, 12, pointValue(t, data.Points[1], "U.S.::Tablets"), 1e-9)

	// 2021 has no Canada record: the key is absent, not zero.
	_, ok := data.Points[1].Value("Canada::Tablets")
	assert.False(t, ok)

	assert.Equal(t, []string{"U.S.::Tablets", "Canada::Tablets"}, data.SeriesNames)
}

func TestComputeChartDataGeographyRollupLevel1(t *testing.T) {
	engine := newEngine(t)
	records := []domain.MarketRecord{
		{Year: 2020, Geography: "U.S.", Segment: "All", SegmentType: "By Region", Value: 10},
		{Year: 2020, Geography: "Canada", Segment: "All", SegmentType: "By Region", Value: 5},
		{Year: 2020, Geography: "Germany", Segment: "All", SegmentType: "By Region", Value: 7},
		{Year: 2021, Geography: "Germany", Segment: "All", SegmentType: "By Region", Value: 9},
	}
	ds := newDataset(records, "U.S.", "Canada", "Germany")

	level := 1
	criteria := domain.FilterCriteria{
		DataType:         domain.DataTypeValue,
		ViewMode:         domain.ViewModeGeography,
		SegmentType:      "By Type", // substituted: no segments selected
		AggregationLevel: &level,
		YearRange:        [2]int{2020, 2021},
	}

	data := engine.ComputeChartData(ds, criteria)

	require.Len(t, data.Points, 2)
	assert.InDelta(t, 15, pointValue(t, data.Points[0], "North America"), 1e-9)
	assert.InDelta(t, 7, pointValue(t, data.Points[0], "Europe"), 1e-9)
	assert.InDelta(t, 9, pointValue(t, data.Points[1], "Europe"), 1e-9)
	assert.Equal(t, []string{"North America", "Europe"}, data.SeriesNames)
}

func TestComputeChartDataGeographyModeUngrouped(t *testing.T) {
	engine := newEngine(t)
	records := []domain.MarketRecord{
		{Year: 2020, Geography: "U.S.", Segment: "All", SegmentType: "By Region", Value: 10},
		{Year: 2020, Geography: "Canada", Segment: "All", SegmentType: "By Region", Value: 5},
	}
	ds := newDataset(records, "U.S.", "Canada")

	criteria := domain.FilterCriteria{
		DataType:  domain.DataTypeValue,
		ViewMode:  domain.ViewModeGeography,
		YearRange: [2]int{2020, 2020},
	}

	data := engine.ComputeChartData(ds, criteria)

	require.Len(t, data.Points, 1)
	assert.InDelta(t, 10, pointValue(t, data.Points[0], "U.S."), 1e-9)
	assert.InDelta(t, 5, pointValue(t, data.Points[0], "Canada"), 1e-9)
	assert.Equal(t, []string{"U.S.", "Canada"}, data.SeriesNames)
}

// Matrix mode ignores the aggregation level: its series axis is the
// geography/segment cross product at leaf granularity.
func TestComputeChartDataMatrixModeIgnoresAggregationLevel(t *testing.T) {
	engine := newEngine(t)
	ds := newDataset(scenarioRecords(), "U.S.", "Canada")

	criteria := scenarioCriteria()
	criteria.ViewMode = domain.ViewModeMatrix
	level := 2
	criteria.AggregationLevel = &level

	data := engine.ComputeChartData(ds, criteria)

	assert.Contains(t, data.SeriesNames, "U.S.::Tablets")
	assert.NotContains(t, data.SeriesNames, "Solid Dosage")
}

func TestComputeChartDataEmptyResults(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name     string
		ds       *dataset.Dataset
		criteria domain.FilterCriteria
	}{
		{
			name:     "empty_dataset",
			ds:       newDataset(nil),
			criteria: scenarioCriteria(),
		},
		{
			name: "fully_excluding_filter",
			ds:   newDataset(scenarioRecords(), "U.S.", "Canada"),
			criteria: func() domain.FilterCriteria {
				c := scenarioCriteria()
				c.Geographies = []string{"Atlantis"}
				return c
			}(),
		},
		{
			name: "year_range_outside_data",
			ds:   newDataset(scenarioRecords(), "U.S.", "Canada"),
			criteria: func() domain.FilterCriteria {
				c := scenarioCriteria()
				c.YearRange = [2]int{1990, 1995}
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := engine.ComputeChartData(tt.ds, tt.criteria)
			assert.Empty(t, data.Points)
			assert.Empty(t, data.SeriesNames)
		})
	}
}
