package info

import (
	"fmt"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
)

// FieldSpec describes one field of a point record.
type FieldSpec struct {
	Name string
	// Type is the on-disk type.
	Type format.FieldType
	// Size is the on-disk byte size.
	Size int
	// Scale and Offset apply when Scaled is set: value = raw*Scale + Offset.
	Scale  float64
	Offset float64
	Scaled bool
}

// OutputType returns the type values of this field are exposed as.
// Scaled fields are always float64 whatever their on-disk type.
func (f FieldSpec) OutputType() format.FieldType {
	if f.Scaled {
		return format.FieldFloat64
	}

	return f.Type
}

type fieldDocument struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Size   uint64   `json:"size"`
	Scale  *float64 `json:"scale"`
	Offset *float64 `json:"offset"`
}

// spec validates the entry. A scaled entry is always exposed as float64; when
// its nominal (type, size) is not a recognized pair it is stored on disk as
// an 8-byte float, matching the width the output type occupies in a layout.
func (d *fieldDocument) spec() (FieldSpec, error) {
	if d.Name == "" {
		return FieldSpec{}, fmt.Errorf("%w: schema entry without a name", errs.ErrMalformedMetadata)
	}

	ft := format.ParseFieldType(d.Type, d.Size)
	if ft == format.FieldNone {
		if d.Scale == nil {
			return FieldSpec{}, fmt.Errorf("%w: field %q has unsupported type %q of size %d",
				errs.ErrMalformedMetadata, d.Name, d.Type, d.Size)
		}
		ft = format.FieldFloat64
	}

	spec := FieldSpec{
		Name:  d.Name,
		Type:  ft,
		Size:  ft.Size(),
		Scale: 1,
	}
	if d.Scale != nil {
		spec.Scaled = true
		spec.Scale = *d.Scale
		if d.Offset != nil {
			spec.Offset = *d.Offset
		}
	}

	return spec, nil
}
