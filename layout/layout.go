package layout

import (
	"fmt"
	"slices"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/info"
)

// Property pseudo-field names accepted after finalization.
const (
	PropertyOriginID   = "OriginId"
	PropertyNodeDepth  = "NodeDepth"
	PropertyPointIndex = "PointIndex"
)

var propertyNames = []string{PropertyOriginID, PropertyNodeDepth, PropertyPointIndex}

// IsProperty reports whether name is one of the property pseudo-fields.
func IsProperty(name string) bool {
	return slices.Contains(propertyNames, name)
}

// Field is a schema field placed at a byte offset within a record.
type Field struct {
	Spec   info.FieldSpec
	Offset int
}

// FieldLayout describes where each field lives in a point record.
type FieldLayout interface {
	// Fields returns the record fields in byte order.
	Fields() []Field
	// Field returns the i-th record field.
	Field(i int) Field
	// Index returns the position of the named record field.
	Index(name string) (int, bool)
	// RecordSize returns the byte size of one record.
	RecordSize() int
	// Properties returns the property pseudo-fields, which have no bytes.
	Properties() []string
}

// Fixed is an order-preserving FieldLayout.
//
// Fixed is not safe for concurrent mutation. Build it on one goroutine,
// finalize it, then share it.
type Fixed struct {
	fields     []Field
	index      map[string]int
	properties []string
	size       int
	finalized  bool
}

var _ FieldLayout = (*Fixed)(nil)

// NewFixed creates an empty layout.
func NewFixed() *Fixed {
	return &Fixed{index: make(map[string]int)}
}

// FromSchema builds a finalized layout holding the schema fields in order.
//
// Returns ErrMalformedMetadata when the schema names a field twice.
func FromSchema(schema []info.FieldSpec) (*Fixed, error) {
	l := NewFixed()
	for _, spec := range schema {
		if !l.Add(spec) {
			return nil, fmt.Errorf("%w: duplicate field %q", errs.ErrMalformedMetadata, spec.Name)
		}
	}
	l.Finalize()

	return l, nil
}

// Add appends a field at the next byte offset.
//
// Before finalization a field whose name is already present is rejected.
// After finalization only property pseudo-fields are accepted; they are
// recorded without an offset and do not change the record size.
//
// Returns:
//   - bool: true when the field was accepted
func (l *Fixed) Add(spec info.FieldSpec) bool {
	if l.finalized {
		if !IsProperty(spec.Name) {
			return false
		}
		if !slices.Contains(l.properties, spec.Name) {
			l.properties = append(l.properties, spec.Name)
		}

		return true
	}

	if _, ok := l.index[spec.Name]; ok {
		return false
	}

	l.index[spec.Name] = len(l.fields)
	l.fields = append(l.fields, Field{Spec: spec, Offset: l.size})
	l.size += spec.Size

	return true
}

// AddChecked is Add reporting a rejection as ErrUnsupportedOperation.
func (l *Fixed) AddChecked(spec info.FieldSpec) error {
	if l.Add(spec) {
		return nil
	}
	if l.finalized {
		return fmt.Errorf("%w: cannot add field %q to a finalized layout", errs.ErrUnsupportedOperation, spec.Name)
	}

	return fmt.Errorf("%w: field %q already registered", errs.ErrUnsupportedOperation, spec.Name)
}

// Finalize freezes the record shape.
func (l *Fixed) Finalize() {
	l.finalized = true
}

// Finalized reports whether Finalize was called.
func (l *Fixed) Finalized() bool {
	return l.finalized
}

// Fields returns the record fields in byte order. The slice must not be modified.
func (l *Fixed) Fields() []Field {
	return l.fields
}

// Field returns the i-th record field.
func (l *Fixed) Field(i int) Field {
	return l.fields[i]
}

// Index returns the position of the named record field.
func (l *Fixed) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// RecordSize returns the byte size of one record.
func (l *Fixed) RecordSize() int {
	return l.size
}

// Properties returns the property pseudo-fields in the order they were added.
func (l *Fixed) Properties() []string {
	return l.properties
}
