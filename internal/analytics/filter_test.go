package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mintel/pkg/contracts/domain"
)

func sampleRecords() []domain.MarketRecord {
	return []domain.MarketRecord{
		{Year: 2019, Geography: "U.S.", Segment: "Tablets", SegmentType: "By Type", Value: 8},
		{Year: 2020, Geography: "U.S.", Segment: "Tablets", SegmentType: "By Type", Value: 10},
		{Year: 2020, Geography: "Canada", Segment: "Tablets", SegmentType: "By Type", Value: 5},
		{Year: 2020, Geography: "Canada", Segment: "Capsules", SegmentType: "By Type", Value: 3},
		{Year: 2021, Geography: "U.S.", Segment: "Tablets", SegmentType: "By Type", Value: 12},
		{Year: 2021, Geography: "Germany", Segment: "Tablets", SegmentType: "By Region", Value: 7},
	}
}

func baseCriteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		DataType:    domain.DataTypeValue,
		ViewMode:    domain.ViewModeSegment,
		SegmentType: "By Type",
		YearRange:   [2]int{2019, 2021},
	}
}

func TestFilterRecordsEmptySelectionsMeanNoRestriction(t *testing.T) {
	records := sampleRecords()
	criteria := baseCriteria()

	filtered := FilterRecords(records, criteria)

	// All "By Type" records pass: empty geography and segment selections
	// restrict nothing.
	assert.Len(t, filtered, 5)

	unrestricted := 0
	for _, r := range records {
		if r.SegmentType == "By Type" {
			unrestricted++
		}
	}
	assert.Equal(t, unrestricted, len(filtered))
}

func TestFilterRecordsGeographySelection(t *testing.T) {
	criteria := baseCriteria()
	criteria.Geographies = []string{"Canada"}

	filtered := FilterRecords(sampleRecords(), criteria)

	assert.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, "Canada", r.Geography)
	}
}

func TestFilterRecordsSegmentSelection(t *testing.T) {
	criteria := baseCriteria()
	criteria.Segments = []string{"Capsules"}

	filtered := FilterRecords(sampleRecords(), criteria)

	assert.Len(t, filtered, 1)
	assert.Equal(t, "Capsules", filtered[0].Segment)
}

func TestFilterRecordsYearRangeInclusive(t *testing.T) {
	criteria := baseCriteria()
	criteria.YearRange = [2]int{2020, 2020}

	filtered := FilterRecords(sampleRecords(), criteria)

	assert.Len(t, filtered, 3)
	for _, r := range filtered {
		assert.Equal(t, 2020, r.Year)
	}
}

// A reversed range is swapped, not treated as empty.
func TestFilterRecordsReversedYearRangeSwapped(t *testing.T) {
	criteria := baseCriteria()
	criteria.YearRange = [2]int{2021, 2019}

	filtered := FilterRecords(sampleRecords(), criteria)

	assert.Len(t, filtered, 5)
}

func TestFilterRecordsPreservesOrder(t *testing.T) {
	criteria := baseCriteria()

	filtered := FilterRecords(sampleRecords(), criteria)

	years := make([]int, 0, len(filtered))
	for _, r := range filtered {
		years = append(years, r.Year)
	}
	assert.Equal(t, []int{2019, 2020, 2020, 2020, 2021}, years)
}

func TestFilterRecordsSegmentTypeMismatchExcluded(t *testing.T) {
	criteria := baseCriteria()
	criteria.SegmentType = "By Application"

	filtered := FilterRecords(sampleRecords(), criteria)

	assert.Empty(t, filtered)
}

func TestFilterRecordsAdvancedSelectionsReplaceSegmentClauses(t *testing.T) {
	criteria := baseCriteria()
	// Plain clauses would exclude the "By Region" record; the advanced pairs
	// take over both the segment and segment-type clauses.
	criteria.Segments = []string{"Capsules"}
	criteria.AdvancedSegments = []domain.SegmentSelection{
		{Type: "By Region", Name: "Tablets"},
		{Type: "By Type", Name: "Capsules"},
	}

	filtered := FilterRecords(sampleRecords(), criteria)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "Capsules", filtered[0].Segment)
	assert.Equal(t, "Germany", filtered[1].Geography)
}

func TestEffectiveSegmentType(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		expected string
	}{
		{
			name: "geography_mode_without_segments_substitutes_by_region",
			criteria: domain.FilterCriteria{
				ViewMode:    domain.ViewModeGeography,
				SegmentType: "By Type",
			},
			expected: domain.SegmentTypeByRegion,
		},
		{
			name: "geography_mode_with_segments_keeps_criteria_type",
			criteria: domain.FilterCriteria{
				ViewMode:    domain.ViewModeGeography,
				SegmentType: "By Type",
				Segments:    []string{"Tablets"},
			},
			expected: "By Type",
		},
		{
			name: "segment_mode_unchanged",
			criteria: domain.FilterCriteria{
				ViewMode:    domain.ViewModeSegment,
				SegmentType: "By Type",
			},
			expected: "By Type",
		},
		{
			name: "matrix_mode_unchanged",
			criteria: domain.FilterCriteria{
				ViewMode:    domain.ViewModeMatrix,
				SegmentType: "By Type",
			},
			expected: "By Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveSegmentType(tt.criteria))
		})
	}
}

func TestFilterRecordsEmptyInput(t *testing.T) {
	filtered := FilterRecords(nil, baseCriteria())
	assert.Empty(t, filtered)
}
