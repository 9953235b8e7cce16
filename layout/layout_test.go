package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ept/endian"
	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
	"github.com/arloliu/ept/info"
)

func field(name string, t format.FieldType) info.FieldSpec {
	return info.FieldSpec{Name: name, Type: t, Size: t.Size(), Scale: 1}
}

func xyIntensity() []info.FieldSpec {
	return []info.FieldSpec{
		field("x", format.FieldFloat64),
		field("y", format.FieldFloat64),
		field("intensity", format.FieldUnsigned16),
	}
}

func TestFixedOffsets(t *testing.T) {
	l, err := FromSchema(xyIntensity())
	require.NoError(t, err)

	require.Equal(t, 18, l.RecordSize())
	require.Len(t, l.Fields(), 3)
	assert.Equal(t, 0, l.Field(0).Offset)
	assert.Equal(t, 8, l.Field(1).Offset)
	assert.Equal(t, 16, l.Field(2).Offset)

	i, ok := l.Index("intensity")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = l.Index("z")
	assert.False(t, ok)
	assert.True(t, l.Finalized())
}

func TestFixedPreservesOrder(t *testing.T) {
	l := NewFixed()
	require.True(t, l.Add(field("b", format.FieldUnsigned8)))
	require.True(t, l.Add(field("a", format.FieldFloat64)))
	require.True(t, l.Add(field("c", format.FieldSigned32)))

	names := make([]string, 0, 3)
	for _, f := range l.Fields() {
		names = append(names, f.Spec.Name)
	}
	require.Equal(t, []string{"b", "a", "c"}, names)
	require.Equal(t, 1, l.Field(1).Offset)
	require.Equal(t, 9, l.Field(2).Offset)
}

func TestFixedRejectsDuplicate(t *testing.T) {
	l := NewFixed()
	require.True(t, l.Add(field("x", format.FieldFloat64)))
	require.False(t, l.Add(field("x", format.FieldFloat32)))

	require.Len(t, l.Fields(), 1)
	require.Equal(t, 8, l.RecordSize())

	err := l.AddChecked(field("x", format.FieldFloat64))
	require.ErrorIs(t, err, errs.ErrUnsupportedOperation)
}

func TestFixedFinalize(t *testing.T) {
	l := NewFixed()
	require.True(t, l.Add(field("x", format.FieldFloat64)))
	l.Finalize()

	require.False(t, l.Add(field("y", format.FieldFloat64)))
	require.ErrorIs(t, l.AddChecked(field("y", format.FieldFloat64)), errs.ErrUnsupportedOperation)

	for _, name := range []string{PropertyOriginID, PropertyNodeDepth, PropertyPointIndex} {
		require.True(t, l.Add(field(name, format.FieldUnsigned64)), name)
	}
	require.True(t, l.Add(field(PropertyOriginID, format.FieldUnsigned64)))
	require.NoError(t, l.AddChecked(field(PropertyNodeDepth, format.FieldUnsigned64)))

	assert.Len(t, l.Fields(), 1)
	assert.Equal(t, 8, l.RecordSize())
	assert.Equal(t, []string{PropertyOriginID, PropertyNodeDepth, PropertyPointIndex}, l.Properties())

	_, ok := l.Index(PropertyOriginID)
	assert.False(t, ok)
}

func TestFromSchemaDuplicate(t *testing.T) {
	schema := append(xyIntensity(), field("x", format.FieldFloat64))
	_, err := FromSchema(schema)
	require.ErrorIs(t, err, errs.ErrMalformedMetadata)
}

func TestPointCount(t *testing.T) {
	schema := []info.FieldSpec{
		field("x", format.FieldFloat64),
		field("y", format.FieldFloat64),
		field("intensity", format.FieldUnsigned32),
	}
	l, err := FromSchema(schema)
	require.NoError(t, err)
	require.Equal(t, 20, l.RecordSize())

	n, err := NewPointBuffer(make([]byte, 20), l).PointCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = NewPointBuffer(make([]byte, 21), l).PointCount()
	require.ErrorIs(t, err, errs.ErrMalformedRecord)

	n, err = NewPointBuffer(nil, l).PointCount()
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = NewPointBuffer(make([]byte, 8), NewFixed()).PointCount()
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestReadFieldAliasesPayload(t *testing.T) {
	l, err := FromSchema(xyIntensity())
	require.NoError(t, err)

	engine := endian.RecordEngine()
	var data []byte
	for i := range 3 {
		data = endian.AppendFloat64(engine, data, float64(i)+0.5)
		data = endian.AppendFloat64(engine, data, float64(i)*10)
		data = engine.AppendUint16(data, uint16(100+i))
	}

	buf := NewPointBuffer(data, l)
	n, err := buf.PointCount()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	raw := buf.ReadField(2, 1)
	require.Len(t, raw, 2)
	require.Equal(t, uint16(101), engine.Uint16(raw))
	require.Same(t, &data[18+16], &raw[0])

	require.Len(t, buf.Point(2), 18)
	require.InDelta(t, 2.5, buf.Value(0, 2), 1e-12)
	require.InDelta(t, 20.0, buf.Value(1, 2), 1e-12)
	require.InDelta(t, 102.0, buf.Value(2, 2), 1e-12)
}

func TestValueTypes(t *testing.T) {
	engine := endian.RecordEngine()

	tests := []struct {
		name string
		spec info.FieldSpec
		raw  []byte
		want float64
	}{
		{"int8", field("v", format.FieldSigned8), []byte{0xfe}, -2},
		{"int16", field("v", format.FieldSigned16), engine.AppendUint16(nil, 0xfffd), -3},
		{"int32", field("v", format.FieldSigned32), engine.AppendUint32(nil, 0xfffffffc), -4},
		{"int64", field("v", format.FieldSigned64), engine.AppendUint64(nil, 0xfffffffffffffffb), -5},
		{"uint8", field("v", format.FieldUnsigned8), []byte{200}, 200},
		{"uint16", field("v", format.FieldUnsigned16), engine.AppendUint16(nil, 60000), 60000},
		{"uint32", field("v", format.FieldUnsigned32), engine.AppendUint32(nil, 4000000000), 4000000000},
		{"uint64", field("v", format.FieldUnsigned64), engine.AppendUint64(nil, 1<<40), 1 << 40},
		{"float32", field("v", format.FieldFloat32), endian.AppendFloat32(engine, nil, 1.5), 1.5},
		{"float64", field("v", format.FieldFloat64), endian.AppendFloat64(engine, nil, -2.25), -2.25},
		{
			"scaled int32",
			info.FieldSpec{Name: "v", Type: format.FieldSigned32, Size: 4, Scale: 0.01, Offset: 100, Scaled: true},
			engine.AppendUint32(nil, uint32(12345)),
			223.45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := FromSchema([]info.FieldSpec{tt.spec})
			require.NoError(t, err)

			buf := NewPointBuffer(tt.raw, l)
			require.InDelta(t, tt.want, buf.Value(0, 0), 1e-9)
		})
	}
}

func TestIntegerFieldsLossless(t *testing.T) {
	engine := endian.RecordEngine()
	const big = uint64(1)<<53 + 1
	neg := -int64(big)

	schema := []info.FieldSpec{
		field("u", format.FieldUnsigned64),
		field("s", format.FieldSigned64),
		field("small", format.FieldSigned16),
		field("f", format.FieldFloat64),
		{Name: "scaled", Type: format.FieldSigned32, Size: 4, Scale: 0.5, Scaled: true},
	}
	l, err := FromSchema(schema)
	require.NoError(t, err)

	var data []byte
	data = engine.AppendUint64(data, big)
	data = engine.AppendUint64(data, uint64(neg))
	data = engine.AppendUint16(data, 0xfffe)
	data = endian.AppendFloat64(engine, data, -7.75)
	data = engine.AppendUint32(data, 9)

	buf := NewPointBuffer(data, l)

	assert.Equal(t, big, buf.Uint64(0, 0))
	assert.Equal(t, int64(big), buf.Int64(0, 0))
	assert.NotEqual(t, big, uint64(buf.Value(0, 0)))

	assert.Equal(t, neg, buf.Int64(1, 0))
	assert.Equal(t, uint64(neg), buf.Uint64(1, 0))

	assert.Equal(t, int64(-2), buf.Int64(2, 0))
	assert.Equal(t, int64(-7), buf.Int64(3, 0))
	assert.Equal(t, int64(4), buf.Int64(4, 0))
	assert.Equal(t, uint64(4), buf.Uint64(4, 0))
}

func TestAddPointUnsupported(t *testing.T) {
	l, err := FromSchema(xyIntensity())
	require.NoError(t, err)

	buf := NewPointBuffer(make([]byte, 18), l)
	require.ErrorIs(t, buf.AddPoint(), errs.ErrUnsupportedOperation)
	require.Len(t, buf.Bytes(), 18)
	require.Same(t, l, buf.Layout())
}

func BenchmarkValue(b *testing.B) {
	l, _ := FromSchema(xyIntensity())
	data := make([]byte, 18*1024)
	buf := NewPointBuffer(data, l)

	for b.Loop() {
		var sum float64
		for i := range 1024 {
			sum += buf.Value(0, i) + buf.Value(2, i)
		}
		_ = sum
	}
}
