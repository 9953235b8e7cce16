package reader

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
)

// Kind is the storage kind of a table column.
type Kind uint8

const (
	// KindUnset columns take the kind of their source on the first Read.
	KindUnset Kind = iota
	KindFloat64
	KindInt64
	KindUint64
)

// KindOf returns the column kind that holds values of t without loss.
func KindOf(t format.FieldType) Kind {
	switch t.Kind() {
	case "signed":
		return KindInt64
	case "unsigned":
		return KindUint64
	default:
		return KindFloat64
	}
}

func (k Kind) String() string {
	switch k {
	case KindFloat64:
		return "float64"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	default:
		return "unset"
	}
}

type column struct {
	kind  Kind
	words []uint64
}

// Table is a caller-owned columnar output. Every column stores one 64-bit
// word per point in its kind, so integer fields keep their full precision;
// rows appended for one node stay contiguous.
//
// Several sessions may fill one table concurrently. Read the columns once no
// Read is writing to the table.
type Table struct {
	mu      sync.Mutex
	names   []string
	index   map[string]int
	columns []column
	rows    int
}

// NewTable creates a table with the given columns. Repeated names are kept
// once. Column kinds are bound by the first Read that fills the table.
func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, name := range columns {
		if _, ok := t.index[name]; ok {
			continue
		}
		t.index[name] = len(t.names)
		t.names = append(t.names, name)
	}
	t.columns = make([]column, len(t.names))

	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.names)
}

// Kind returns the storage kind of the named column.
func (t *Table) Kind(name string) (Kind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[name]
	if !ok {
		return KindUnset, false
	}

	return t.columns[i].kind, true
}

// Column returns the values of the named column converted to float64.
// 64-bit integers above 2^53 are rounded; use Int64Column or Uint64Column to
// read them exactly.
func (t *Table) Column(name string) ([]float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[name]
	if !ok {
		return nil, false
	}

	col := t.columns[i]
	out := make([]float64, len(col.words))
	for j, w := range col.words {
		switch col.kind {
		case KindInt64:
			out[j] = float64(int64(w))
		case KindUint64:
			out[j] = float64(w)
		default:
			out[j] = math.Float64frombits(w)
		}
	}

	return out, true
}

// Int64Column returns the values of the named column as int64. Integer
// columns convert exactly; float columns are truncated toward zero.
func (t *Table) Int64Column(name string) ([]int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[name]
	if !ok {
		return nil, false
	}

	col := t.columns[i]
	out := make([]int64, len(col.words))
	for j, w := range col.words {
		if col.kind == KindFloat64 {
			out[j] = int64(math.Float64frombits(w))
			continue
		}
		out[j] = int64(w)
	}

	return out, true
}

// Uint64Column returns the values of the named column as uint64. Integer
// columns convert exactly; float columns are truncated toward zero.
func (t *Table) Uint64Column(name string) ([]uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[name]
	if !ok {
		return nil, false
	}

	col := t.columns[i]
	if col.kind != KindFloat64 {
		return slices.Clone(col.words), true
	}

	out := make([]uint64, len(col.words))
	for j, w := range col.words {
		out[j] = uint64(math.Float64frombits(w))
	}

	return out, true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.rows
}

// bind sets the kind of column c when it is unset and returns the kind the
// column stores.
func (t *Table) bind(c int, k Kind) Kind {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.columns[c].kind == KindUnset {
		t.columns[c].kind = k
	}

	return t.columns[c].kind
}

// appendWords adds n rows. words is column-major: the n words of column c
// start at words[c*n], each encoded in the column's kind.
func (t *Table) appendWords(n int, words []uint64) error {
	if len(words) != n*len(t.names) {
		return fmt.Errorf("%w: %d values for %d rows of %d columns",
			errs.ErrMalformedRecord, len(words), n, len(t.names))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for c := range t.columns {
		t.columns[c].words = append(t.columns[c].words, words[c*n:(c+1)*n]...)
	}
	t.rows += n

	return nil
}
