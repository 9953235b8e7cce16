package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ept/compress"
	"github.com/arloliu/ept/endian"
	"github.com/arloliu/ept/format"
	"github.com/arloliu/ept/key"
)

// The fixture dataset covers [0,8]^3. Its hierarchy root page points to a
// second page for the 1-1-1-1 subtree:
//
//	0-0-0-0: 3   1-0-0-0: 2   1-1-1-1: 4   2-3-3-3: 1   2-2-2-2: 0
//
// Records are X, Y, Z (int32, scale 0.01) and Intensity (uint16). The
// intensity of point i of node d-x-y-z is d*1000 + x*100 + i.
var fixtureCounts = map[string]int{
	"0-0-0-0": 3,
	"1-0-0-0": 2,
	"1-1-1-1": 4,
	"2-3-3-3": 1,
}

const fixturePoints = 10

const fixtureInfo = `{
	"bounds": [0, 0, 0, 8, 8, 8],
	"boundsConforming": [0, 0, 0, 8, 8, 8],
	"dataType": %q,
	"hierarchyType": "json",
	"points": 10,
	"schema": [
		{"name": "X", "type": "signed", "size": 4, "scale": 0.01, "offset": 0},
		{"name": "Y", "type": "signed", "size": 4, "scale": 0.01, "offset": 0},
		{"name": "Z", "type": "signed", "size": 4, "scale": 0.01, "offset": 0},
		{"name": "Intensity", "type": "unsigned", "size": 2}
	],
	"span": 128,
	"srs": {"authority": "EPSG", "horizontal": "3857"},
	"version": "1.0.0"
}`

func intensityOf(id key.ID, i int) uint16 {
	return uint16(id.D*1000 + id.X*100 + uint64(i))
}

// nodeRecords builds n records inside the node bounds.
func nodeRecords(t testing.TB, s string, n int) []byte {
	t.Helper()

	k, err := key.ParseWithin(s, key.NewBounds(0, 0, 0, 8, 8, 8))
	require.NoError(t, err)

	engine := endian.RecordEngine()
	mid := k.Bounds.Mid()

	var data []byte
	for i := range n {
		data = engine.AppendUint32(data, uint32(int32(mid.X*100)+int32(i)))
		data = engine.AppendUint32(data, uint32(int32(mid.Y*100)))
		data = engine.AppendUint32(data, uint32(int32(mid.Z*100)))
		data = engine.AppendUint16(data, intensityOf(k.ID, i))
	}

	return data
}

func writeFixtureFile(t testing.TB, root, rel string, data []byte) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

// writeDataset writes the fixture dataset with the given data type and
// returns its root directory.
func writeDataset(t testing.TB, dt format.DataType) string {
	t.Helper()
	root := t.TempDir()

	writeFixtureFile(t, root, "ept.json", fmt.Appendf(nil, fixtureInfo, dt.String()))
	writeFixtureFile(t, root, "ept-hierarchy/0-0-0-0.json",
		[]byte(`{"0-0-0-0": 3, "1-0-0-0": 2, "1-1-1-1": -1}`))
	writeFixtureFile(t, root, "ept-hierarchy/1-1-1-1.json",
		[]byte(`{"1-1-1-1": 4, "2-3-3-3": 1, "2-2-2-2": 0}`))

	for s, n := range fixtureCounts {
		data := nodeRecords(t, s, n)
		if dt == format.DataTypeZstandard {
			var err error
			data, err = compress.NewZstd().Compress(data)
			require.NoError(t, err)
		}
		writeFixtureFile(t, root, "ept-data/"+s+"."+dt.Extension(), data)
	}

	return root
}

// writeAddon writes a one-byte classification addon covering 0-0-0-0 and
// 1-0-0-0, where point i holds 10+i, and returns its directory.
func writeAddon(t testing.TB, root string) string {
	t.Helper()
	dir := filepath.Join(root, "addons", "class")

	writeFixtureFile(t, dir, "ept-addon.json",
		[]byte(`{"type": "unsigned", "size": 1, "dataType": "binary", "version": "1.0.0"}`))
	writeFixtureFile(t, dir, "ept-hierarchy/0-0-0-0.json",
		[]byte(`{"0-0-0-0": 3, "1-0-0-0": 2}`))
	writeFixtureFile(t, dir, "ept-data/0-0-0-0.bin", []byte{10, 11, 12})
	writeFixtureFile(t, dir, "ept-data/1-0-0-0.bin", []byte{10, 11})

	return dir
}
