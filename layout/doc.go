// Package layout maps EPT point records onto their fields.
//
// A node payload is a packed sequence of fixed-size records. Each record holds
// the dataset schema fields in schema order with no padding, so the byte
// offset of a field is the sum of the sizes before it. The remote encoder
// decides that order; this package never reorders or repacks fields.
//
// # Layouts
//
// Fixed is the order-preserving FieldLayout. Fields are appended in schema
// order and each one receives the next byte offset. Once Finalize is called
// the record shape is frozen: only the property pseudo-fields OriginId,
// NodeDepth and PointIndex may still be added, and they carry no bytes.
//
//	l := layout.NewFixed()
//	l.Add(info.FieldSpec{Name: "X", Type: format.FieldFloat64, Size: 8})
//	l.Add(info.FieldSpec{Name: "Y", Type: format.FieldFloat64, Size: 8})
//	l.Finalize()
//
// FromSchema does the same for a whole dataset schema.
//
// # Point Buffers
//
// PointBuffer is a read-only view over a decoded payload. ReadField returns a
// sub-slice of the payload, so callers must not modify it, and Value decodes
// one field to float64 applying scale and offset.
//
//	buf := layout.NewPointBuffer(payload, l)
//	n, err := buf.PointCount()
//	for i := 0; i < n; i++ {
//		x := buf.Value(0, i)
//		...
//	}
//
// # Thread Safety
//
// A finalized Fixed layout is safe for concurrent reads. A PointBuffer is
// owned by one decode task and is not meant to be shared.
package layout
