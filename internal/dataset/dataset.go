// Package dataset decodes the row/column JSON shape produced by the external
// workbook loader into immutable in-memory market data. Acquiring the bytes
// (file, upload, HTTP) is the caller's concern; this package never does I/O
// of its own beyond the supplied reader.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"mintel/pkg/contracts/domain"
)

// Partition holds the records of one value-or-volume slice of the dataset.
type Partition struct {
	GeographySegmentMatrix []domain.MarketRecord `json:"geography_segment_matrix"`
}

// Dimensions describes the label sets present in the dataset.
type Dimensions struct {
	Geographies struct {
		AllGeographies []string `json:"all_geographies"`
	} `json:"geographies"`
}

// Metadata carries the dataset's display units.
type Metadata struct {
	Currency   string `json:"currency"`
	ValueUnit  string `json:"value_unit"`
	VolumeUnit string `json:"volume_unit"`
}

// Dataset is one decoded market dataset. It is treated as immutable for the
// session; ID is a fresh identity token assigned at decode time so caches can
// tell datasets apart without hashing record contents.
type Dataset struct {
	ID         string     `json:"-"`
	Dimensions Dimensions `json:"dimensions"`
	Data       struct {
		Value  Partition `json:"value"`
		Volume Partition `json:"volume"`
	} `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Decode parses a dataset from r and assigns it a fresh identity token.
// Missing or empty partitions are legitimate and decode to empty slices.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	ds.ID = uuid.New().String()
	return &ds, nil
}

// Records returns the record slice for the requested partition. Unknown data
// types yield an empty slice rather than an error; downstream filtering turns
// that into an empty, not failed, result.
func (d *Dataset) Records(dataType domain.DataType) []domain.MarketRecord {
	switch dataType {
	case domain.DataTypeValue:
		return d.Data.Value.GeographySegmentMatrix
	case domain.DataTypeVolume:
		return d.Data.Volume.GeographySegmentMatrix
	default:
		return nil
	}
}

// Geographies returns the geography labels declared by the dataset.
func (d *Dataset) Geographies() []string {
	return d.Dimensions.Geographies.AllGeographies
}
