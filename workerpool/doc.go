// Package workerpool provides a fixed-size worker pool with a bounded task
// queue.
//
// Submit blocks while the queue is full, which keeps producers from running
// ahead of the workers. A task that returns an error or panics never stops
// the pool: the failure is recorded and the worker moves on to the next task.
//
// # Lifecycle
//
// A pool is running once New returns.
//
//   - Await blocks until the queue is empty and no task is executing. Tasks
//     may still be submitted while another goroutine awaits.
//   - Join refuses new tasks, lets the workers drain the queue and waits for
//     them to exit.
//   - Go starts the workers again and clears the recorded failures.
//   - Cycle is Join followed by Go. Resize joins, changes the worker count
//     and starts again.
//
// # Basic Usage
//
//	p, err := workerpool.New(4, workerpool.WithQueueSize(8))
//	if err != nil {
//		return err
//	}
//	defer p.Join()
//
//	for _, n := range nodes {
//		if err := p.Submit(func() error { return fetch(n) }); err != nil {
//			return err
//		}
//	}
//	p.Join()
//	if err := p.Err(); err != nil {
//		return err
//	}
//
// # Thread Safety
//
// Submit, Await, Join, Go, Cycle and Resize may be called from any goroutine.
// Errors and Err must only be called after Join.
package workerpool
