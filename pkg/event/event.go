// Package event is the in-process dispatcher that decouples domain actions
// from their side effects. Placing an order fires "order.placed"; the mail
// job and the admin websocket feed subscribe without the order service
// knowing either exists.
package event

import (
	"sync"

	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/workerpool"
)

// Handler receives the event payload.
type Handler func(payload interface{})

var (
	mu        sync.RWMutex
	listeners = map[string][]Handler{}

	poolOnce sync.Once
	pool     *workerpool.Pool
)

// Listen registers a handler for name. Handlers run in registration order.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], h)
}

// Fire runs every handler synchronously on the caller's goroutine.
func Fire(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h(payload)
	}
}

// FireAsync hands each handler to the shared worker pool and returns
// immediately. Under sustained backpressure a dispatch is dropped and logged
// rather than blocking the request path.
func FireAsync(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h := h
		if err := dispatchPool().TrySubmit(func() { h(payload) }); err != nil {
			logger.Warn("event: dropped async dispatch", "event", name, "error", err)
		}
	}
}

// Flush removes all listeners. Tests use it to isolate subscriptions.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Handler{}
}

func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), listeners[name]...)
}

func dispatchPool() *workerpool.Pool {
	poolOnce.Do(func() { pool = workerpool.New(16) })
	return pool
}
