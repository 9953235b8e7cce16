package transport

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/arloliu/ept/compress"
	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/internal/hash"
	"github.com/arloliu/ept/internal/options"
)

// DefaultCacheBytes is the default compressed size limit of a Cached transport.
const DefaultCacheBytes = 256 * 1024 * 1024

// CacheOption configures a Cached transport.
type CacheOption = options.Option[*Cached]

// WithCacheCodec sets the codec cached bodies are stored with. The default
// is compress.CacheNone.
func WithCacheCodec(kind compress.CacheKind) CacheOption {
	return options.New(func(c *Cached) error {
		codec, err := compress.CacheCodec(kind)
		if err != nil {
			return err
		}
		c.codec = codec
		c.kind = kind

		return nil
	})
}

// WithCacheMaxBytes sets the total size of stored bodies, measured after
// compression. Values below 1 disable caching.
func WithCacheMaxBytes(n int64) CacheOption {
	return options.NoError(func(c *Cached) {
		c.maxBytes = n
	})
}

// WithCacheLogger sets the logger for hit and miss messages.
func WithCacheLogger(logger *zap.Logger) CacheOption {
	return options.NoError(func(c *Cached) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// CacheStats reports cache activity.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	Bytes     int64
}

// Cached wraps a Transport and keeps fetched bodies in memory, compressed
// with a cache codec. Entries are evicted in insertion order once the total
// stored size exceeds the limit. Concurrent fetches of the same path share
// one request to the inner transport.
type Cached struct {
	inner    Transport
	codec    compress.Codec
	kind     compress.CacheKind
	maxBytes int64
	logger   *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[uint64][]byte
	order   []uint64
	bytes   int64
	stats   CacheStats
}

var _ Transport = (*Cached)(nil)

// NewCached wraps inner with an in-memory cache.
func NewCached(inner Transport, opts ...CacheOption) (*Cached, error) {
	c := &Cached{
		inner:    inner,
		codec:    compress.NewNoOp(),
		kind:     compress.CacheNone,
		maxBytes: DefaultCacheBytes,
		logger:   zap.NewNop(),
		entries:  make(map[uint64][]byte),
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Get returns the cached body for path or fetches and stores it.
func (c *Cached) Get(ctx context.Context, path string) ([]byte, error) {
	id := hash.Resource(c.inner.Endpoint(), path)

	if data, ok, err := c.lookup(id); ok || err != nil {
		if err != nil {
			return nil, err
		}
		c.logger.Debug("cache hit", zap.String("path", path))

		return data, nil
	}

	// The shared fetch outlives any one caller: a caller that gives up only
	// stops waiting, the others still receive the body.
	ch := c.group.DoChan(strconv.FormatUint(id, 16), func() (any, error) {
		data, err := c.inner.Get(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		c.store(id, data)

		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrTransport, path, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	v, shared := res.Val, res.Shared

	c.logger.Debug("cache miss", zap.String("path", path), zap.Bool("shared", shared))

	data, _ := v.([]byte)
	if shared {
		// the winner's slice is handed to several callers
		data = append([]byte(nil), data...)
	}

	return data, nil
}

// Endpoint returns the endpoint of the wrapped transport.
func (c *Cached) Endpoint() string {
	return c.inner.Endpoint()
}

// Stats returns a snapshot of cache activity.
func (c *Cached) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	s.Bytes = c.bytes

	return s
}

func (c *Cached) lookup(id uint64) ([]byte, bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	if !ok {
		return nil, false, nil
	}

	data, err := c.codec.Decompress(entry)
	if err != nil {
		return nil, false, fmt.Errorf("cache %s: %w", c.kind, err)
	}
	if c.kind == compress.CacheNone || c.kind == "" {
		// NoOp hands out the stored slice itself
		data = append(make([]byte, 0, len(data)), data...)
	}

	return data, true, nil
}

func (c *Cached) store(id uint64, data []byte) {
	if c.maxBytes <= 0 {
		return
	}

	stored, err := c.codec.Compress(data)
	if err != nil {
		c.logger.Warn("cache compression failed", zap.Error(err))
		return
	}
	if c.kind == compress.CacheNone || c.kind == "" {
		stored = append(make([]byte, 0, len(stored)), stored...)
	}
	size := int64(len(stored))
	if size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		return
	}

	for c.bytes+size > c.maxBytes && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.bytes -= int64(len(c.entries[oldest]))
		delete(c.entries, oldest)
		c.stats.Evictions++
	}

	c.entries[id] = stored
	c.order = append(c.order, id)
	c.bytes += size
}
