package domain

// DataType selects which dataset partition a computation reads.
type DataType string

const (
	DataTypeValue  DataType = "value"
	DataTypeVolume DataType = "volume"
)

// ViewMode selects which dimension becomes the chart's series axis.
type ViewMode string

const (
	ViewModeSegment   ViewMode = "segment"
	ViewModeGeography ViewMode = "geography"
	ViewModeMatrix    ViewMode = "matrix"
)

// SegmentTypeByRegion is the segment type substituted in geography-oriented
// views when the user has made no explicit segment selection.
const SegmentTypeByRegion = "By Region"

// MatrixKeySeparator joins geography and segment labels into a composite
// series key in matrix view mode.
const MatrixKeySeparator = "::"

// MarketRecord is a single observation in the geography/segment matrix.
// Records are loaded once per session and treated as immutable; duplicate
// (year, geography, segment, segment type) combinations are additively
// combinable.
type MarketRecord struct {
	Year        int     `json:"year"`
	Geography   string  `json:"geography"`
	Segment     string  `json:"segment"`
	SegmentType string  `json:"segment_type"`
	Value       float64 `json:"value"`
}

// SegmentSelection is one entry of an advanced segment selection: an exact
// (segment type, segment name) pair.
type SegmentSelection struct {
	Type string `json:"type" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// FilterCriteria is an immutable snapshot of the dashboard's filter state for
// one computation. Empty Geographies or Segments means "no restriction on
// that dimension", never "exclude everything". A nil AggregationLevel means
// no rollup is in effect and series stay at leaf granularity.
type FilterCriteria struct {
	DataType         DataType           `json:"data_type" validate:"required,oneof=value volume"`
	ViewMode         ViewMode           `json:"view_mode" validate:"required,oneof=segment geography matrix"`
	SegmentType      string             `json:"segment_type"`
	Geographies      []string           `json:"geographies"`
	Segments         []string           `json:"segments"`
	AdvancedSegments []SegmentSelection `json:"advanced_segments" validate:"dive"`
	AggregationLevel *int               `json:"aggregation_level" validate:"omitempty,min=1"`
	YearRange        [2]int             `json:"year_range" validate:"required"`
}

// NormalizedYearRange returns the inclusive [start, end] bounds with a
// reversed range swapped into ascending order. Swapping (rather than
// treating the range as empty) keeps a dragged-backwards range selector
// usable.
func (c FilterCriteria) NormalizedYearRange() (int, int) {
	start, end := c.YearRange[0], c.YearRange[1]
	if start > end {
		return end, start
	}
	return start, end
}

// GeographyNode is one node of the resolved geography tree. Name carries the
// canonical dataset label when a match exists, otherwise the reference
// template label kept as a non-selectable placeholder.
type GeographyNode struct {
	Name         string          `json:"name"`
	Children     []GeographyNode `json:"children,omitempty"`
	ExistsInData bool            `json:"exists_in_data"`
}
