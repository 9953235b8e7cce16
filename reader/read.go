package reader

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arloliu/ept/compress"
	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
	"github.com/arloliu/ept/internal/pool"
	"github.com/arloliu/ept/key"
	"github.com/arloliu/ept/layout"
)

const layoutPropertyType = format.FieldUnsigned64

type sourceKind uint8

const (
	sourceField sourceKind = iota
	sourceAddon
	sourceNodeDepth
	sourcePointIndex
)

// source says where the values of one table column come from and the kind
// they are stored as.
type source struct {
	kind   sourceKind
	index  int
	column Kind
}

// NewTable creates a table holding every column the session can produce:
// the schema fields, then the addons, then the node properties when enabled.
func (r *Reader) NewTable() *Table {
	names := make([]string, 0, len(r.layout.Fields())+len(r.addons)+2)
	for _, f := range r.layout.Fields() {
		names = append(names, f.Spec.Name)
	}
	for _, a := range r.addons {
		names = append(names, a.Name)
	}
	names = append(names, r.layout.Properties()...)

	return NewTable(names...)
}

// Read decodes the given nodes into table.
//
// Nodes absent from the hierarchy or holding no points are skipped. A node
// whose decoded point count differs from its hierarchy count fails with
// ErrMalformedRecord. Node failures do not stop the other nodes.
//
// Returns:
//   - error: nil when every node was read, otherwise the combined node
//     errors; ErrUnsupportedOperation when the table has a column the
//     session cannot produce; ErrPoolStopped after Close
func (r *Reader) Read(ctx context.Context, keys []key.Key, table *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errs.ErrPoolStopped
	}

	plan, err := r.plan(table)
	if err != nil {
		return err
	}

	var submitErr error
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}

		id := k.ID
		err := r.pool.Submit(func() error {
			return r.readNode(ctx, id, plan, table)
		})
		if err != nil {
			submitErr = err
			break
		}
	}

	r.pool.Join()
	failed := len(r.pool.Errors())
	taskErr := r.pool.Err()
	r.pool.Go()

	if taskErr != nil {
		taskErr = fmt.Errorf("%d of %d nodes failed: %w", failed, len(keys), taskErr)
	}

	return multierr.Combine(submitErr, taskErr)
}

func (r *Reader) plan(table *Table) ([]source, error) {
	columns := table.Columns()
	plan := make([]source, len(columns))

outer:
	for c, name := range columns {
		if i, ok := r.layout.Index(name); ok {
			plan[c] = source{kind: sourceField, index: i, column: KindOf(r.layout.Field(i).Spec.OutputType())}
			continue
		}
		for i, a := range r.addons {
			if a.Name == name {
				plan[c] = source{kind: sourceAddon, index: i, column: KindOf(a.Field.OutputType())}
				continue outer
			}
		}
		for _, p := range r.layout.Properties() {
			if p != name {
				continue
			}
			switch name {
			case layout.PropertyNodeDepth:
				plan[c] = source{kind: sourceNodeDepth, column: KindUint64}
				continue outer
			case layout.PropertyPointIndex:
				plan[c] = source{kind: sourcePointIndex, column: KindUint64}
				continue outer
			}
		}

		return nil, fmt.Errorf("%w: no source for column %q", errs.ErrUnsupportedOperation, name)
	}

	for c := range plan {
		plan[c].column = table.bind(c, plan[c].column)
	}

	return plan, nil
}

func (r *Reader) readNode(ctx context.Context, id key.ID, plan []source, table *Table) error {
	count := r.hierarchy.Get(id)
	if count == 0 {
		return nil
	}

	path := nodePath(id, r.info.DataType.Extension())
	payload, err := r.transport.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("node %s: %w", id, err)
	}

	records, release, err := r.decode(payload)
	if err != nil {
		return fmt.Errorf("node %s: %w", id, err)
	}
	defer release()

	buf := layout.NewPointBuffer(records, r.layout)
	n, err := buf.PointCount()
	if err != nil {
		return fmt.Errorf("node %s: %w", id, err)
	}
	if uint64(n) != count {
		return fmt.Errorf("%w: node %s decoded %d points, hierarchy lists %d",
			errs.ErrMalformedRecord, id, n, count)
	}

	words, releaseWords := pool.GetUint64Slice(n * len(plan))
	defer releaseWords()

	for c, src := range plan {
		col := words[c*n : (c+1)*n]
		switch src.kind {
		case sourceField:
			for i := range col {
				col[i] = fieldWord(buf, src.index, i, src.column)
			}
		case sourceAddon:
			if err := r.addons[src.index].values(ctx, id, src.column, col); err != nil {
				return fmt.Errorf("node %s: %w", id, err)
			}
		case sourceNodeDepth:
			for i := range col {
				col[i] = uintWord(uint64(id.D), src.column)
			}
		case sourcePointIndex:
			for i := range col {
				col[i] = uintWord(uint64(i), src.column)
			}
		}
	}

	r.logger.Debug("read node", zap.Stringer("key", id), zap.Int("points", n))

	return table.appendWords(n, words)
}

// decode turns a node payload into packed records. The returned function
// gives back any scratch buffer; the records must not be used after it runs.
func (r *Reader) decode(payload []byte) ([]byte, func(), error) {
	ad, ok := r.decoder.(compress.AppendDecompressor)
	if !ok || r.info.DataType == format.DataTypeBinary {
		records, err := r.decoder.Decompress(payload)
		return records, func() {}, err
	}

	bb := pool.GetNodeBuffer()
	out, err := ad.DecompressAppend(bb.B[:0], payload)
	if err != nil {
		pool.PutNodeBuffer(bb)
		return nil, func() {}, err
	}
	bb.B = out

	return out, func() { pool.PutNodeBuffer(bb) }, nil
}

func nodePath(id key.ID, ext string) string {
	return "ept-data/" + id.String() + "." + ext
}

// fieldWord encodes one field value as a word of the given column kind.
func fieldWord(buf *layout.PointBuffer, fieldIdx, pointIdx int, k Kind) uint64 {
	switch k {
	case KindInt64:
		return uint64(buf.Int64(fieldIdx, pointIdx))
	case KindUint64:
		return buf.Uint64(fieldIdx, pointIdx)
	default:
		return math.Float64bits(buf.Value(fieldIdx, pointIdx))
	}
}

func uintWord(v uint64, k Kind) uint64 {
	switch k {
	case KindFloat64:
		return math.Float64bits(float64(v))
	default:
		return v
	}
}
