package reader

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/arloliu/ept/compress"
	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/hierarchy"
	"github.com/arloliu/ept/info"
	"github.com/arloliu/ept/internal/options"
	"github.com/arloliu/ept/key"
	"github.com/arloliu/ept/layout"
	"github.com/arloliu/ept/transport"
	"github.com/arloliu/ept/workerpool"
)

// InfoPath is the path of the dataset descriptor.
const InfoPath = "ept.json"

var errInvalidAddon = fmt.Errorf("%w: addon needs a name and an endpoint", errs.ErrMalformedMetadata)

// Reader is an open dataset session.
//
// Accessors are safe for concurrent use. Read and Close are serialized: a
// Read waits for the one before it, and Close waits for a Read in progress.
type Reader struct {
	endpoint  string
	transport transport.Transport
	info      *info.Info
	hierarchy *hierarchy.Hierarchy
	layout    *layout.Fixed
	decoder   compress.Decompressor
	addons    []*Addon
	pool      *workerpool.Pool
	logger    *zap.Logger

	// mu guards closed and the pool lifecycle across Read and Close.
	mu     sync.Mutex
	closed bool
}

// Open opens the dataset at endpoint.
//
// Metadata, hierarchy and addon errors are returned immediately; nothing is
// left running on failure.
//
// Parameters:
//   - ctx: bounds the metadata and hierarchy fetches
//   - endpoint: local directory or http(s) URL of the dataset
//   - opts: session options
//
// Returns:
//   - *Reader: open session; call Close when done
//   - error: ErrMalformedMetadata, ErrInvalidAddress, ErrTransport or
//     ErrUnsupportedOperation
func Open(ctx context.Context, endpoint string, opts ...Option) (*Reader, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	t := cfg.transport
	if t == nil {
		t = transport.New(endpoint)
	}
	t, err := withCache(t, cfg)
	if err != nil {
		return nil, err
	}

	text, err := transport.GetText(ctx, t, InfoPath)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", InfoPath, err)
	}
	inf, err := info.Parse([]byte(text))
	if err != nil {
		return nil, err
	}

	decoder, err := compress.ForDataType(inf.DataType, cfg.laszip)
	if err != nil {
		return nil, err
	}

	h, err := loadHierarchy(ctx, t, cfg.hierarchyConcurrency)
	if err != nil {
		return nil, err
	}

	l, err := buildLayout(inf, cfg.nodeProperties)
	if err != nil {
		return nil, err
	}

	addons := make([]*Addon, 0, len(cfg.addons))
	for _, spec := range cfg.addons {
		a, err := openAddon(ctx, spec, inf, cfg)
		if err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}

	pool, err := workerpool.New(cfg.threads,
		workerpool.WithQueueSize(cfg.queueSize),
		workerpool.WithLogger(cfg.logger.Named("pool")),
	)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		endpoint:  endpoint,
		transport: t,
		info:      inf,
		hierarchy: h,
		layout:    l,
		decoder:   decoder,
		addons:    addons,
		pool:      pool,
		logger:    cfg.logger,
	}

	r.logger.Info("opened dataset",
		zap.String("endpoint", endpoint),
		zap.Uint64("points", inf.Points),
		zap.Int("nodes", h.Len()),
		zap.Stringer("dataType", inf.DataType),
		zap.Int("addons", len(addons)),
	)

	return r, nil
}

func withCache(t transport.Transport, cfg *config) (transport.Transport, error) {
	if cfg.cacheKind == "" {
		return t, nil
	}

	return transport.NewCached(t,
		transport.WithCacheCodec(cfg.cacheKind),
		transport.WithCacheMaxBytes(cfg.cacheBytes),
		transport.WithCacheLogger(cfg.logger.Named("cache")),
	)
}

func buildLayout(inf *info.Info, nodeProperties bool) (*layout.Fixed, error) {
	l, err := layout.FromSchema(inf.Schema)
	if err != nil {
		return nil, err
	}
	if l.RecordSize() == 0 {
		return nil, fmt.Errorf("%w: schema has no fields", errs.ErrMalformedMetadata)
	}

	if nodeProperties {
		for _, name := range []string{layout.PropertyNodeDepth, layout.PropertyPointIndex} {
			spec := info.FieldSpec{Name: name, Type: layoutPropertyType, Size: layoutPropertyType.Size()}
			if err := l.AddChecked(spec); err != nil {
				return nil, err
			}
		}
	}

	return l, nil
}

// Endpoint returns the dataset endpoint.
func (r *Reader) Endpoint() string {
	return r.endpoint
}

// Info returns the dataset descriptor.
func (r *Reader) Info() *info.Info {
	return r.info
}

// Hierarchy returns the dataset hierarchy.
func (r *Reader) Hierarchy() *hierarchy.Hierarchy {
	return r.hierarchy
}

// Layout returns the record layout of node payloads.
func (r *Reader) Layout() layout.FieldLayout {
	return r.layout
}

// Addons returns the configured addons in option order.
func (r *Reader) Addons() []*Addon {
	return r.addons
}

// Select returns the non-empty nodes up to maxDepth (negative for no limit)
// whose bounds intersect query (nil for everything), in ascending key order.
func (r *Reader) Select(maxDepth int, query *key.Bounds) []key.Key {
	return r.hierarchy.Select(r.info.Bounds, maxDepth, query)
}

// Points returns the total point count of the given nodes.
func (r *Reader) Points(keys []key.Key) uint64 {
	var total uint64
	for _, k := range keys {
		total += r.hierarchy.Get(k.ID)
	}

	return total
}

// Close stops the worker pool. It waits for a Read in progress to drain.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.pool.Join()

	return nil
}
