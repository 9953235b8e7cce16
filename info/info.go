// Package info parses EPT dataset metadata: the ept.json descriptor and the
// ept-addon.json descriptor of supplemental fields.
package info

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
	"github.com/arloliu/ept/key"
)

// Info is the parsed ept.json descriptor. It is read-only after Parse.
type Info struct {
	// Bounds is the cube the octree root covers.
	Bounds key.Bounds
	// BoundsConforming is the tight extent of the points; equal to Bounds
	// when the descriptor omits it.
	BoundsConforming key.Bounds
	Points           uint64
	Span             uint64
	SRS              string
	// Schema order defines the on-disk byte offsets of every field.
	Schema   []FieldSpec
	DataType format.DataType
	Sources  uint64
	Version  string
}

type document struct {
	Bounds           []float64       `json:"bounds"`
	BoundsConforming []float64       `json:"boundsConforming"`
	Points           uint64          `json:"points"`
	Span             uint64          `json:"span"`
	SRS              *srsDocument    `json:"srs"`
	DataType         string          `json:"dataType"`
	Schema           []fieldDocument `json:"schema"`
	Sources          json.RawMessage `json:"sources"`
	Version          string          `json:"version"`
}

// Parse parses an ept.json document.
//
// Returns:
//   - *Info: parsed descriptor
//   - error: ErrMalformedMetadata for invalid JSON, a bounds array that does
//     not hold 6 numbers, an unknown dataType or an unsupported field type
func Parse(data []byte) (*Info, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: ept.json: %w", errs.ErrMalformedMetadata, err)
	}

	bounds, ok := key.BoundsFromSlice(doc.Bounds)
	if !ok {
		return nil, fmt.Errorf("%w: bounds has %d elements, want 6", errs.ErrMalformedMetadata, len(doc.Bounds))
	}

	conforming := bounds
	if doc.BoundsConforming != nil {
		conforming, ok = key.BoundsFromSlice(doc.BoundsConforming)
		if !ok {
			return nil, fmt.Errorf("%w: boundsConforming has %d elements, want 6",
				errs.ErrMalformedMetadata, len(doc.BoundsConforming))
		}
	}

	dt, ok := format.ParseDataType(doc.DataType)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized dataType %q", errs.ErrMalformedMetadata, doc.DataType)
	}

	schema := make([]FieldSpec, 0, len(doc.Schema))
	for i := range doc.Schema {
		spec, err := doc.Schema[i].spec()
		if err != nil {
			return nil, err
		}
		schema = append(schema, spec)
	}

	return &Info{
		Bounds:           bounds,
		BoundsConforming: conforming,
		Points:           doc.Points,
		Span:             doc.Span,
		SRS:              doc.SRS.resolve(),
		Schema:           schema,
		DataType:         dt,
		Sources:          sourceCount(doc.Sources),
		Version:          doc.Version,
	}, nil
}

// FindField returns the schema entry with the given name.
func (i *Info) FindField(name string) (FieldSpec, bool) {
	for _, f := range i.Schema {
		if f.Name == name {
			return f, true
		}
	}

	return FieldSpec{}, false
}

// RecordSize returns the on-disk byte size of one point record.
func (i *Info) RecordSize() int {
	size := 0
	for _, f := range i.Schema {
		size += f.Size
	}

	return size
}

// Root returns the root key of the octree.
func (i *Info) Root() key.Key {
	return key.Root(i.Bounds)
}

// sourceCount reads "sources" as a count. Newer descriptors store a path
// instead, which yields 0.
func sourceCount(raw json.RawMessage) uint64 {
	if len(raw) == 0 {
		return 0
	}

	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}

	return n
}
