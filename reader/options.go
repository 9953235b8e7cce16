package reader

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/arloliu/ept/compress"
	"github.com/arloliu/ept/internal/options"
	"github.com/arloliu/ept/transport"
)

const (
	defaultQueueSize            = 1
	defaultHierarchyConcurrency = 8
)

// Option configures Open.
type Option = options.Option[*config]

type addonSpec struct {
	name     string
	endpoint string
}

type config struct {
	transport            transport.Transport
	threads              int
	queueSize            int
	logger               *zap.Logger
	addons               []addonSpec
	laszip               compress.Decompressor
	cacheKind            compress.CacheKind
	cacheBytes           int64
	nodeProperties       bool
	hierarchyConcurrency int
}

func newConfig() *config {
	return &config{
		threads:              runtime.GOMAXPROCS(0),
		queueSize:            defaultQueueSize,
		logger:               zap.NewNop(),
		hierarchyConcurrency: defaultHierarchyConcurrency,
	}
}

// WithTransport sets the transport for the dataset endpoint instead of the
// one transport.New would pick.
func WithTransport(t transport.Transport) Option {
	return options.NoError(func(c *config) {
		c.transport = t
	})
}

// WithThreads sets the number of node read workers. The default is
// GOMAXPROCS.
func WithThreads(n int) Option {
	return options.NoError(func(c *config) {
		c.threads = max(n, 1)
	})
}

// WithQueueSize sets how many node reads may wait for a worker. The default
// is 1.
func WithQueueSize(n int) Option {
	return options.NoError(func(c *config) {
		c.queueSize = max(n, 1)
	})
}

// WithLogger sets the logger for the session, its pool and its cache.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithAddon adds a supplemental field stored at endpoint. The field is exposed
// under name.
func WithAddon(name, endpoint string) Option {
	return options.New(func(c *config) error {
		if name == "" || endpoint == "" {
			return errInvalidAddon
		}
		c.addons = append(c.addons, addonSpec{name: name, endpoint: endpoint})

		return nil
	})
}

// WithLaszipDecoder sets the decoder turning laszip node payloads into packed
// records matching the dataset schema. Datasets with dataType "laszip" cannot
// be opened without one.
func WithLaszipDecoder(d compress.Decompressor) Option {
	return options.NoError(func(c *config) {
		c.laszip = d
	})
}

// WithCache keeps fetched payloads in memory, compressed with kind, up to
// maxBytes of stored data.
func WithCache(kind compress.CacheKind, maxBytes int64) Option {
	return options.New(func(c *config) error {
		if _, err := compress.CacheCodec(kind); err != nil {
			return err
		}
		c.cacheKind = kind
		c.cacheBytes = maxBytes

		return nil
	})
}

// WithNodeProperties adds the NodeDepth and PointIndex columns: the depth of
// the node a point came from and its index within that node.
func WithNodeProperties(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.nodeProperties = enabled
	})
}

// WithHierarchyConcurrency bounds how many hierarchy pages are fetched at
// once. The default is 8.
func WithHierarchyConcurrency(n int) Option {
	return options.NoError(func(c *config) {
		c.hierarchyConcurrency = max(n, 1)
	})
}
