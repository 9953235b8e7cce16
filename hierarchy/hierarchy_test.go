package hierarchy

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/key"
)

func mustID(t *testing.T, s string) key.ID {
	t.Helper()
	id, err := key.ParseID(s)
	require.NoError(t, err)

	return id
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage([]byte(`{"0-0-0-0": 100, "1-0-0-0": 0, "1-1-1-1": -1}`))
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, int64(100), page[mustID(t, "0-0-0-0")])
	assert.Equal(t, int64(0), page[mustID(t, "1-0-0-0")])
	assert.Equal(t, Subtree, page[mustID(t, "1-1-1-1")])
}

func TestParsePageErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"bad key", `{"0-0-0": 1}`, errs.ErrInvalidAddress},
		{"non numeric key", `{"a-b-c-d": 1}`, errs.ErrInvalidAddress},
		{"fractional count", `{"0-0-0-0": 1.5}`, errs.ErrMalformedMetadata},
		{"string count", `{"0-0-0-0": "1"}`, errs.ErrMalformedMetadata},
		{"count below marker", `{"0-0-0-0": -2}`, errs.ErrMalformedMetadata},
		{"not an object", `[1, 2]`, errs.ErrMalformedMetadata},
		{"truncated", `{"0-0-0-0": 1`, errs.ErrMalformedMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePage([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPagePath(t *testing.T) {
	require.Equal(t, "ept-hierarchy/0-0-0-0.json", PagePath(key.ID{}))
	require.Equal(t, "ept-hierarchy/2-3-1-0.json", PagePath(mustID(t, "2-3-1-0")))
}

func TestGetAndHas(t *testing.T) {
	h := New()
	h.Merge(Page{mustID(t, "0-0-0-0"): 10, mustID(t, "1-0-0-0"): 0})

	assert.Equal(t, uint64(10), h.Get(mustID(t, "0-0-0-0")))

	// present but empty
	assert.Equal(t, uint64(0), h.Get(mustID(t, "1-0-0-0")))
	assert.True(t, h.Has(mustID(t, "1-0-0-0")))

	// absent
	assert.Equal(t, uint64(0), h.Get(mustID(t, "1-1-0-0")))
	assert.False(t, h.Has(mustID(t, "1-1-0-0")))

	n, ok := h.Lookup(mustID(t, "0-0-0-0"))
	assert.True(t, ok)
	assert.Equal(t, uint64(10), n)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, uint64(10), h.Points())
}

func TestMergeFirstWriterWins(t *testing.T) {
	h := New()
	root := mustID(t, "0-0-0-0")

	h.Merge(Page{root: 5})
	h.Merge(Page{root: 99})

	require.Equal(t, uint64(5), h.Get(root))
}

func TestMergeReturnsSubtrees(t *testing.T) {
	h := New()
	page, err := ParsePage([]byte(`{
		"0-0-0-0": 10,
		"1-1-0-0": -1,
		"1-0-0-0": 3,
		"1-0-1-1": -1
	}`))
	require.NoError(t, err)

	subtrees := h.Merge(page)
	require.Equal(t, []key.ID{mustID(t, "1-0-1-1"), mustID(t, "1-1-0-0")}, subtrees)

	// markers are not inserted
	assert.False(t, h.Has(mustID(t, "1-1-0-0")))
	assert.Equal(t, 2, h.Len())

	deeper, err := ParsePage([]byte(`{"1-1-0-0": 7, "2-2-0-0": 1}`))
	require.NoError(t, err)
	require.Empty(t, h.Merge(deeper))
	assert.Equal(t, uint64(7), h.Get(mustID(t, "1-1-0-0")))
	assert.Equal(t, uint64(21), h.Points())
}

func TestKeysSorted(t *testing.T) {
	h := New()
	h.Merge(Page{
		mustID(t, "2-0-0-1"): 1,
		mustID(t, "0-0-0-0"): 1,
		mustID(t, "1-1-0-0"): 1,
		mustID(t, "1-0-1-0"): 1,
	})

	got := make([]string, 0, h.Len())
	for _, id := range h.Keys() {
		got = append(got, id.String())
	}
	require.Equal(t, []string{"0-0-0-0", "1-0-1-0", "1-1-0-0", "2-0-0-1"}, got)
}

func TestSelect(t *testing.T) {
	root := key.NewBounds(0, 0, 0, 8, 8, 8)

	h := New()
	h.Merge(Page{
		mustID(t, "0-0-0-0"): 4,
		mustID(t, "1-0-0-0"): 2,
		mustID(t, "1-1-1-1"): 3,
		mustID(t, "1-1-0-0"): 0,
		mustID(t, "2-3-3-3"): 1,
	})

	t.Run("all", func(t *testing.T) {
		got := h.Select(root, -1, nil)
		require.Len(t, got, 4)
		assert.Equal(t, "2-3-3-3", got[3].String())
		assert.Equal(t, key.NewBounds(6, 6, 6, 8, 8, 8), got[3].Bounds)
	})

	t.Run("depth limited", func(t *testing.T) {
		got := h.Select(root, 1, nil)
		require.Len(t, got, 3)
		for _, k := range got {
			assert.LessOrEqual(t, k.D, uint64(1))
		}
	})

	t.Run("query box", func(t *testing.T) {
		q := key.NewBounds(0.5, 0.5, 0.5, 1, 1, 1)
		got := h.Select(root, -1, &q)
		ids := make([]string, 0, len(got))
		for _, k := range got {
			ids = append(ids, k.String())
		}
		assert.Equal(t, []string{"0-0-0-0", "1-0-0-0"}, ids)
	})
}

func TestConcurrentMerge(t *testing.T) {
	h := New()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page := make(Page)
			for x := range uint64(64) {
				page[key.ID{D: 6, X: x, Y: uint64(w)}] = int64(w + 1)
			}
			h.Merge(page)
			_ = h.Get(key.ID{D: 6})
			_ = h.Len()
		}()
	}
	wg.Wait()

	require.Equal(t, 8*64, h.Len())
}

func BenchmarkMerge(b *testing.B) {
	page := make(Page, 4096)
	for i := range uint64(4096) {
		page[key.ID{D: 12, X: i}] = int64(i)
	}
	b.ResetTimer()

	for b.Loop() {
		New().Merge(page)
	}
}

func ExampleHierarchy_Merge() {
	page, _ := ParsePage([]byte(`{"0-0-0-0": 12, "1-0-0-0": -1}`))

	h := New()
	for _, id := range h.Merge(page) {
		fmt.Println("fetch", PagePath(id))
	}
	fmt.Println(h.Get(key.ID{}))
	// Output:
	// fetch ept-hierarchy/1-0-0-0.json
	// 12
}
