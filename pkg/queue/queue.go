// Package queue runs background jobs outside the request path. Order
// confirmation mail and image cleanup dispatch here instead of blocking the
// HTTP handler.
//
//	type ConfirmationMailJob struct{ OrderID string }
//	func (j ConfirmationMailJob) Handle() error { ... }
//
//	queue.Register("ConfirmationMailJob", func() queue.Job { return &ConfirmationMailJob{} })
//	queue.Dispatch(ConfirmationMailJob{OrderID: id})
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/metrics"
)

// ErrQueueFull is returned when the memory driver's buffer is exhausted.
var ErrQueueFull = errors.New("queue: buffer full")

// Job is one unit of background work. Handle returning an error triggers a
// retry with linear backoff, up to the manager's retry limit.
type Job interface {
	Handle() error
}

// Driver is the storage backend jobs travel through.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver is implemented by drivers that can hold a job until a
// future time. Others fall back to a timer goroutine.
type DelayedDriver interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	retries  int
}

var std = &manager{
	driver:   NewMemoryDriver(),
	registry: map[string]func() Job{},
	retries:  3,
}

// SetDriver swaps the backend. Call before StartWorkers.
func SetDriver(d Driver) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.driver = d
}

// SetRetries changes how many attempts a job gets before it is written to
// the failed jobs collection.
func SetRetries(n int) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if n > 0 {
		std.retries = n
	}
}

// Register maps a job name to its constructor so workers can rebuild the
// job from its JSON payload. Register every job type at boot.
func Register(name string, factory func() Job) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.registry[name] = factory
}

// Dispatch serializes job under name and pushes it onto the queue.
func Dispatch(name string, job Job) error {
	env, err := seal(name, job)
	if err != nil {
		return err
	}
	return std.backend().Push(env)
}

// DispatchAfter schedules job to run after delay. Redis uses its delayed
// sorted set; the memory driver falls back to a timer.
func DispatchAfter(name string, job Job, delay time.Duration) error {
	env, err := seal(name, job)
	if err != nil {
		return err
	}

	if dd, ok := std.backend().(DelayedDriver); ok {
		return dd.PushDelayed(env, delay)
	}

	time.AfterFunc(delay, func() {
		if err := std.backend().Push(env); err != nil {
			logger.Error("queue: delayed push failed", "job", name, "error", err)
		}
	})
	return nil
}

// StartWorkers runs n workers until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go std.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func seal(name string, job Job) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	return json.Marshal(envelope{Type: name, Payload: payload})
}

func (m *manager) backend() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

func (m *manager) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		raw, err := m.backend().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.process(raw)
	}
}

func (m *manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	retries := m.retries
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	status := "ok"
	if err := m.attempt(job, env.Type, retries); err != nil {
		status = "failed"
	}
	metrics.RecordQueueJob(env.Type, status, start)
}

func (m *manager) attempt(job Job, name string, retries int) error {
	var lastErr error
	for try := 1; try <= retries; try++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed", "type", name, "attempt", try, "error", err)
			time.Sleep(time.Duration(try) * time.Second)
			continue
		}
		logger.Info("queue: job processed", "type", name)
		return nil
	}

	recordFailure(job, name, lastErr, retries)
	logger.Error("queue: job exhausted retries", "type", name, "error", lastErr)
	return lastErr
}
