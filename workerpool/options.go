package workerpool

import (
	"go.uber.org/zap"

	"github.com/arloliu/ept/internal/options"
)

// Option configures a Pool.
type Option = options.Option[*Pool]

// WithQueueSize sets how many tasks may wait for a worker before Submit
// blocks. Values below 1 are raised to 1. The default is 1.
func WithQueueSize(n int) Option {
	return options.NoError(func(p *Pool) {
		p.queueSize = max(n, 1)
	})
}

// WithLogger sets the logger used for lifecycle and task failure messages.
// The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	})
}

// WithVerbose controls whether every task failure is logged at warn level
// as it happens. The default is true.
func WithVerbose(verbose bool) Option {
	return options.NoError(func(p *Pool) {
		p.verbose = verbose
	})
}
