package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/internal/options"
)

// Task is a unit of work. A returned error is recorded by the pool.
type Task func() error

// Pool runs tasks on a fixed number of workers.
//
// One mutex guards the queue, the outstanding counter and the failure list.
// Workers wait on consume for a task; Submit and Await wait on produce,
// which is signaled whenever a task leaves the queue or finishes.
// lifecycle serializes Go, Join, Cycle and Resize so starting workers never
// overlaps waiting for them.
type Pool struct {
	lifecycle sync.Mutex

	mu      sync.Mutex
	produce *sync.Cond
	consume *sync.Cond
	workers sync.WaitGroup

	tasks       []Task
	size        int
	queueSize   int
	running     bool
	outstanding int
	failures    []error

	logger  *zap.Logger
	verbose bool
}

// New creates a pool with the given number of workers and starts it.
//
// Parameters:
//   - workers: worker goroutines; values below 1 are raised to 1
//   - opts: pool options
//
// Returns:
//   - *Pool: running pool
//   - error: an option failed to apply
func New(workers int, opts ...Option) (*Pool, error) {
	p := &Pool{
		size:      max(workers, 1),
		queueSize: 1,
		logger:    zap.NewNop(),
		verbose:   true,
	}
	p.produce = sync.NewCond(&p.mu)
	p.consume = sync.NewCond(&p.mu)

	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	p.Go()

	return p, nil
}

// Go starts the workers. It is a no-op when the pool is running.
// Failures recorded before the call are discarded.
func (p *Pool) Go() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.start()
}

// Join stops accepting tasks, waits for the queued and running tasks to
// finish and for every worker to exit. It is a no-op when the pool is
// stopped. A Go or Join called meanwhile waits for it to return.
func (p *Pool) Join() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.join()
}

// Await blocks until the queue is empty and no task is executing.
//
// Unlike Join, the pool keeps running and tasks submitted by other
// goroutines during the wait are waited for as well.
func (p *Pool) Await() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.tasks) > 0 || p.outstanding > 0 {
		p.produce.Wait()
	}
}

// Cycle joins the pool and starts it again.
func (p *Pool) Cycle() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.join()
	p.start()
}

// Resize joins the pool, changes the worker count and starts it again.
func (p *Pool) Resize(workers int) {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.join()

	p.mu.Lock()
	p.size = max(workers, 1)
	p.mu.Unlock()

	p.start()
}

func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.failures = nil

	p.workers.Add(p.size)
	for range p.size {
		go p.work()
	}

	p.logger.Debug("worker pool started", zap.Int("workers", p.size), zap.Int("queue", p.queueSize))
}

func (p *Pool) join() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.consume.Broadcast()
	// wake submitters blocked on a full queue so they observe the stop
	p.produce.Broadcast()
	p.workers.Wait()

	p.mu.Lock()
	failed := len(p.failures)
	p.mu.Unlock()
	p.logger.Debug("worker pool joined", zap.Int("failures", failed))
}

// Submit queues a task, blocking while the queue is full.
//
// Returns ErrPoolStopped when the pool is not running, including when it is
// joined while Submit waits for room.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return errs.ErrPoolStopped
	}

	for p.running && len(p.tasks) >= p.queueSize {
		p.produce.Wait()
	}
	if !p.running {
		p.mu.Unlock()
		return errs.ErrPoolStopped
	}

	p.tasks = append(p.tasks, task)
	p.mu.Unlock()

	p.consume.Signal()

	return nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.size
}

// QueueSize returns the queue capacity.
func (p *Pool) QueueSize() int {
	return p.queueSize
}

// Running reports whether the pool accepts tasks.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// Errors returns the failure messages recorded since the last Go.
// Call it after Join.
func (p *Pool) Errors() []string {
	out := make([]string, len(p.failures))
	for i, err := range p.failures {
		out[i] = err.Error()
	}

	return out
}

// Err combines the failures recorded since the last Go into one error, or
// returns nil when every task succeeded. Call it after Join.
func (p *Pool) Err() error {
	return multierr.Combine(p.failures...)
}

func (p *Pool) work() {
	defer p.workers.Done()

	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && p.running {
			p.consume.Wait()
		}
		if len(p.tasks) == 0 {
			p.mu.Unlock()
			return
		}

		task := p.tasks[0]
		p.tasks[0] = nil
		p.tasks = p.tasks[1:]
		p.outstanding++
		p.mu.Unlock()

		// room in the queue
		p.produce.Broadcast()

		err := run(task)

		p.mu.Lock()
		p.outstanding--
		if err != nil {
			p.failures = append(p.failures, err)
			if p.verbose {
				p.logger.Warn("pool task failed", zap.Error(err))
			}
		}
		p.mu.Unlock()

		// a task finished
		p.produce.Broadcast()
	}
}

func run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("task panicked: %w", e)
			} else {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}
	}()

	if task == nil {
		return errors.New("nil task")
	}

	return task()
}
