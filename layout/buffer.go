package layout

import (
	"fmt"

	"github.com/arloliu/ept/endian"
	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
)

// PointBuffer is a read-only view of packed point records.
type PointBuffer struct {
	data   []byte
	layout FieldLayout
	engine endian.Engine
}

// NewPointBuffer wraps data without copying it.
func NewPointBuffer(data []byte, layout FieldLayout) *PointBuffer {
	return &PointBuffer{
		data:   data,
		layout: layout,
		engine: endian.RecordEngine(),
	}
}

// Layout returns the layout of the records.
func (b *PointBuffer) Layout() FieldLayout {
	return b.layout
}

// Bytes returns the underlying payload.
func (b *PointBuffer) Bytes() []byte {
	return b.data
}

// PointCount returns the number of records in the buffer.
//
// Returns ErrMalformedRecord when the payload length is not a multiple of
// the record size, which happens with truncated fetches.
func (b *PointBuffer) PointCount() (int, error) {
	size := b.layout.RecordSize()
	if size <= 0 {
		return 0, fmt.Errorf("%w: layout has no record fields", errs.ErrMalformedRecord)
	}
	if len(b.data)%size != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a multiple of record size %d",
			errs.ErrMalformedRecord, len(b.data), size)
	}

	return len(b.data) / size, nil
}

// Point returns the bytes of one record.
func (b *PointBuffer) Point(pointIdx int) []byte {
	size := b.layout.RecordSize()
	start := pointIdx * size

	return b.data[start : start+size : start+size]
}

// ReadField returns the bytes of one field of one record.
//
// The returned slice aliases the payload. The indexes must be in range:
// fieldIdx below len(Fields()) and pointIdx below PointCount().
func (b *PointBuffer) ReadField(fieldIdx, pointIdx int) []byte {
	f := b.layout.Field(fieldIdx)
	start := pointIdx*b.layout.RecordSize() + f.Offset
	end := start + f.Spec.Size

	return b.data[start:end:end]
}

// Value decodes one field of one record to float64, applying the field scale
// and offset when the field is scaled.
func (b *PointBuffer) Value(fieldIdx, pointIdx int) float64 {
	f := b.layout.Field(fieldIdx)
	v := decode(b.engine, f.Spec.Type, b.ReadField(fieldIdx, pointIdx))
	if f.Spec.Scaled {
		return v*f.Spec.Scale + f.Spec.Offset
	}

	return v
}

// Int64 decodes one field of one record as a signed integer. Integer fields
// are decoded exactly, including 64-bit values beyond float64 precision.
// Float and scaled fields are truncated toward zero.
func (b *PointBuffer) Int64(fieldIdx, pointIdx int) int64 {
	f := b.layout.Field(fieldIdx)
	if f.Spec.Scaled || f.Spec.Type.Kind() == "float" {
		return int64(b.Value(fieldIdx, pointIdx))
	}

	raw := b.ReadField(fieldIdx, pointIdx)
	switch f.Spec.Type {
	case format.FieldSigned8:
		return int64(int8(raw[0]))
	case format.FieldSigned16:
		return int64(int16(b.engine.Uint16(raw)))
	case format.FieldSigned32:
		return int64(int32(b.engine.Uint32(raw)))
	default:
		return int64(decodeUnsigned(b.engine, f.Spec.Type, raw))
	}
}

// Uint64 decodes one field of one record as an unsigned integer. Integer
// fields are decoded exactly; signed values keep their two's complement bits.
// Float and scaled fields are truncated toward zero.
func (b *PointBuffer) Uint64(fieldIdx, pointIdx int) uint64 {
	f := b.layout.Field(fieldIdx)
	switch {
	case f.Spec.Scaled || f.Spec.Type.Kind() == "float":
		return uint64(b.Value(fieldIdx, pointIdx))
	case f.Spec.Type.Kind() == "signed":
		return uint64(b.Int64(fieldIdx, pointIdx))
	default:
		return decodeUnsigned(b.engine, f.Spec.Type, b.ReadField(fieldIdx, pointIdx))
	}
}

// AddPoint always fails: a PointBuffer cannot grow.
func (b *PointBuffer) AddPoint() error {
	return fmt.Errorf("%w: cannot add points to a read-only point buffer", errs.ErrUnsupportedOperation)
}

func decode(engine endian.Engine, t format.FieldType, raw []byte) float64 {
	switch t {
	case format.FieldSigned8:
		return float64(int8(raw[0]))
	case format.FieldSigned16:
		return float64(int16(engine.Uint16(raw)))
	case format.FieldSigned32:
		return float64(int32(engine.Uint32(raw)))
	case format.FieldSigned64:
		return float64(int64(engine.Uint64(raw)))
	case format.FieldUnsigned8:
		return float64(raw[0])
	case format.FieldUnsigned16:
		return float64(engine.Uint16(raw))
	case format.FieldUnsigned32:
		return float64(engine.Uint32(raw))
	case format.FieldUnsigned64:
		return float64(engine.Uint64(raw))
	case format.FieldFloat32:
		return float64(endian.Float32(engine, raw))
	case format.FieldFloat64:
		return endian.Float64(engine, raw)
	default:
		return 0
	}
}

func decodeUnsigned(engine endian.Engine, t format.FieldType, raw []byte) uint64 {
	switch t {
	case format.FieldUnsigned8:
		return uint64(raw[0])
	case format.FieldUnsigned16:
		return uint64(engine.Uint16(raw))
	case format.FieldUnsigned32:
		return uint64(engine.Uint32(raw))
	case format.FieldUnsigned64, format.FieldSigned64:
		return engine.Uint64(raw)
	default:
		return 0
	}
}
