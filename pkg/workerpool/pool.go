// Package workerpool bounds concurrent goroutine work. Event fan-out and
// image processing run through a Pool so a burst of orders cannot spawn an
// unbounded number of goroutines.
package workerpool

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrFull is returned by TrySubmit when the queue is at capacity.
var ErrFull = errors.New("workerpool: queue full")

// ErrClosed is returned once Shutdown has started.
var ErrClosed = errors.New("workerpool: closed")

type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	done    chan struct{}
	pending atomic.Int64
}

// New starts a pool of size workers with a queue of 2×size tasks.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		tasks: make(chan func(), size*2),
		done:  make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Submit blocks until a queue slot frees up or the pool closes.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	p.pending.Add(1)
	select {
	case p.tasks <- task:
		return nil
	case <-p.done:
		p.pending.Add(-1)
		return ErrClosed
	}
}

// TrySubmit enqueues without blocking, reporting ErrFull under backpressure
// so the caller can shed load instead of stalling a request.
func (p *Pool) TrySubmit(task func()) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case p.tasks <- task:
		p.pending.Add(1)
		return nil
	default:
		return ErrFull
	}
}

// Pending reports tasks submitted but not yet finished.
func (p *Pool) Pending() int { return int(p.pending.Load()) }

// Shutdown refuses new tasks and waits for in-flight ones. Safe to call
// more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.done)
		close(p.tasks)
		p.wg.Wait()
	})
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.exec(task)
		p.pending.Add(-1)
	}
}

// exec isolates a panicking task from the worker goroutine.
func (p *Pool) exec(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}
