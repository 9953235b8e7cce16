package info

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
	"github.com/arloliu/ept/key"
)

const sampleInfo = `{
	"bounds": [0, 0, 0, 10, 10, 10],
	"boundsConforming": [1, 1, 1, 9, 9, 8],
	"dataType": "binary",
	"hierarchyType": "json",
	"points": 1000,
	"schema": [
		{"name": "X", "type": "signed", "size": 4, "scale": 0.01, "offset": 5},
		{"name": "Y", "type": "signed", "size": 4, "scale": 0.01, "offset": 5},
		{"name": "Z", "type": "signed", "size": 4, "scale": 0.01},
		{"name": "Intensity", "type": "unsigned", "size": 2},
		{"name": "GpsTime", "type": "float", "size": 8}
	],
	"span": 128,
	"srs": {"authority": "EPSG", "horizontal": "3857", "vertical": "5703"},
	"version": "1.0.0",
	"sources": 3
}`

func TestParse(t *testing.T) {
	inf, err := Parse([]byte(sampleInfo))
	require.NoError(t, err)

	assert.Equal(t, key.NewBounds(0, 0, 0, 10, 10, 10), inf.Bounds)
	assert.Equal(t, key.NewBounds(1, 1, 1, 9, 9, 8), inf.BoundsConforming)
	assert.Equal(t, uint64(1000), inf.Points)
	assert.Equal(t, uint64(128), inf.Span)
	assert.Equal(t, "EPSG:3857+5703", inf.SRS)
	assert.Equal(t, format.DataTypeBinary, inf.DataType)
	assert.Equal(t, uint64(3), inf.Sources)
	assert.Equal(t, "1.0.0", inf.Version)
	assert.Equal(t, 4+4+4+2+8, inf.RecordSize())
	assert.Equal(t, "0-0-0-0", inf.Root().String())

	names := make([]string, 0, len(inf.Schema))
	for _, f := range inf.Schema {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"X", "Y", "Z", "Intensity", "GpsTime"}, names)

	x := inf.Schema[0]
	assert.True(t, x.Scaled)
	assert.Equal(t, format.FieldSigned32, x.Type)
	assert.Equal(t, format.FieldFloat64, x.OutputType())
	assert.Equal(t, 4, x.Size)
	assert.InDelta(t, 0.01, x.Scale, 1e-12)
	assert.InDelta(t, 5.0, x.Offset, 1e-12)

	z := inf.Schema[2]
	assert.True(t, z.Scaled)
	assert.Zero(t, z.Offset)

	intensity := inf.Schema[3]
	assert.False(t, intensity.Scaled)
	assert.Equal(t, format.FieldUnsigned16, intensity.OutputType())

	t.Run("scaled field with nonstandard size", func(t *testing.T) {
		inf, err := Parse([]byte(`{"bounds": [0,0,0,1,1,1], "dataType": "binary", "schema": [
			{"name": "X", "type": "signed", "size": 3, "scale": 0.01},
			{"name": "Intensity", "type": "unsigned", "size": 2}
		]}`))
		require.NoError(t, err)

		x := inf.Schema[0]
		assert.True(t, x.Scaled)
		assert.Equal(t, format.FieldFloat64, x.Type)
		assert.Equal(t, format.FieldFloat64, x.OutputType())
		assert.Equal(t, 8, x.Size)
		assert.Equal(t, 8+2, inf.RecordSize())
	})
}

func TestParseDefaults(t *testing.T) {
	inf, err := Parse([]byte(`{"bounds": [0,0,0,1,1,1], "dataType": "laszip", "schema": []}`))
	require.NoError(t, err)

	assert.Equal(t, inf.Bounds, inf.BoundsConforming)
	assert.Equal(t, format.DataTypeLaszip, inf.DataType)
	assert.Empty(t, inf.SRS)
	assert.Zero(t, inf.Sources)
	assert.Empty(t, inf.Schema)
}

func TestParseZstandard(t *testing.T) {
	inf, err := Parse([]byte(`{"bounds": [0,0,0,1,1,1], "dataType": "zstandard", "schema": [], "sources": "ept-sources/list.json"}`))
	require.NoError(t, err)
	assert.Equal(t, format.DataTypeZstandard, inf.DataType)
	assert.Zero(t, inf.Sources)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"five element bounds", `{"bounds": [0,0,0,1,1], "dataType": "binary", "schema": []}`},
		{"missing bounds", `{"dataType": "binary", "schema": []}`},
		{"bad conforming bounds", `{"bounds": [0,0,0,1,1,1], "boundsConforming": [0,0], "dataType": "binary"}`},
		{"unknown data type", `{"bounds": [0,0,0,1,1,1], "dataType": "xyz", "schema": []}`},
		{"missing data type", `{"bounds": [0,0,0,1,1,1], "schema": []}`},
		{"signed size 3", `{"bounds": [0,0,0,1,1,1], "dataType": "binary", "schema": [{"name": "A", "type": "signed", "size": 3}]}`},
		{"float size 2", `{"bounds": [0,0,0,1,1,1], "dataType": "binary", "schema": [{"name": "A", "type": "float", "size": 2}]}`},
		{"unknown kind", `{"bounds": [0,0,0,1,1,1], "dataType": "binary", "schema": [{"name": "A", "type": "string", "size": 4}]}`},
		{"unnamed field", `{"bounds": [0,0,0,1,1,1], "dataType": "binary", "schema": [{"type": "float", "size": 4}]}`},
		{"invalid json", `{"bounds": [0,0,0,1,1,1],`},
		{"bounds of strings", `{"bounds": ["a","b","c","d","e","f"], "dataType": "binary"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, errs.ErrMalformedMetadata)
		})
	}
}

func TestSRSResolution(t *testing.T) {
	tests := []struct {
		name string
		srs  string
		want string
	}{
		{"wkt wins", `{"wkt": "PROJCS[...]", "authority": "EPSG", "horizontal": "3857", "vertical": "5703"}`, "PROJCS[...]"},
		{"empty wkt falls back", `{"wkt": "", "authority": "EPSG", "horizontal": "26915"}`, "EPSG:26915"},
		{"numeric codes", `{"authority": "EPSG", "horizontal": 26915, "vertical": 5703}`, "EPSG:26915+5703"},
		{"horizontal without authority", `{"horizontal": "3857"}`, ""},
		{"vertical only", `{"vertical": "5703"}`, "+5703"},
		{"empty object", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"bounds": [0,0,0,1,1,1], "dataType": "binary", "schema": [], "srs": ` + tt.srs + `}`
			inf, err := Parse([]byte(doc))
			require.NoError(t, err)
			require.Equal(t, tt.want, inf.SRS)
		})
	}
}

func TestFindField(t *testing.T) {
	inf, err := Parse([]byte(sampleInfo))
	require.NoError(t, err)

	f, ok := inf.FindField("Intensity")
	require.True(t, ok)
	assert.Equal(t, format.FieldUnsigned16, f.Type)

	_, ok = inf.FindField("intensity")
	assert.False(t, ok)
}

func TestParseAddon(t *testing.T) {
	spec, dt, err := ParseAddon([]byte(`{"type": "unsigned", "size": 1, "dataType": "binary", "name": "Classification"}`))
	require.NoError(t, err)
	assert.Equal(t, format.DataTypeBinary, dt)
	assert.Equal(t, "Classification", spec.Name)
	assert.Equal(t, format.FieldUnsigned8, spec.Type)
	assert.Equal(t, 1, spec.Size)

	spec, _, err = ParseAddon([]byte(`{"type": "float", "size": 4}`))
	require.NoError(t, err)
	assert.Empty(t, spec.Name)
	assert.Equal(t, format.FieldFloat32, spec.Type)
}

func TestParseAddonMalformed(t *testing.T) {
	for _, doc := range []string{
		`{"type": "unsigned", "size": 1, "dataType": "laszip"}`,
		`{"type": "unsigned", "size": 3, "dataType": "binary"}`,
		`{"type": "unsigned"`,
	} {
		_, _, err := ParseAddon([]byte(doc))
		require.ErrorIs(t, err, errs.ErrMalformedMetadata, doc)
	}
}

func BenchmarkParse(b *testing.B) {
	data := []byte(sampleInfo)
	for b.Loop() {
		if _, err := Parse(data); err != nil {
			b.Fatal(err)
		}
	}
}
