package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeriesPoint holds the summed values of every series contributing to one
// year. A key is present only when at least one record contributed to that
// (year, key) pair; a missing key means "no data", not zero. Key order is
// preserved as first-appearance order for stable display.
type SeriesPoint struct {
	Year   int
	keys   []string
	values map[string]float64
}

// NewSeriesPoint creates an empty point for the given year.
func NewSeriesPoint(year int) SeriesPoint {
	return SeriesPoint{Year: year, values: make(map[string]float64)}
}

// Add accumulates v into the named series, registering the key on first use.
func (p *SeriesPoint) Add(key string, v float64) {
	if p.values == nil {
		p.values = make(map[string]float64)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] += v
}

// Value returns the summed value for key and whether any record contributed.
func (p SeriesPoint) Value(key string) (float64, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the series keys present in this point, in first-appearance
// order. The returned slice must not be mutated.
func (p SeriesPoint) Keys() []string {
	return p.keys
}

// Len returns the number of series keys present in this point.
func (p SeriesPoint) Len() int {
	return len(p.keys)
}

// MarshalJSON flattens the point into a single object: the year plus one
// property per series key, keys emitted in first-appearance order. The
// "year" property name is reserved; a series key with that exact name is
// skipped so the object never carries a duplicate key.
func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`{"year":%d`, p.Year))
	for _, k := range p.keys {
		if k == "year" {
			continue
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ChartData is the engine's render-ready output: year-indexed points plus the
// authoritative, order-stable series name list derived from them.
type ChartData struct {
	Points      []SeriesPoint `json:"points"`
	SeriesNames []string      `json:"series_names"`
}
