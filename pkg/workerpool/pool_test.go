package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(20), counter.Load())
}

func TestTrySubmitBackpressure(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-block }))

	// Fill the queue (capacity 2 for a 1-worker pool), then expect ErrFull.
	var full bool
	for i := 0; i < 10; i++ {
		if err := p.TrySubmit(func() {}); err != nil {
			assert.ErrorIs(t, err, ErrFull)
			full = true
			break
		}
	}
	assert.True(t, full)
	close(block)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(2)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), ErrClosed)
	assert.ErrorIs(t, p.TrySubmit(func() {}), ErrClosed)
}

func TestShutdownWaitsForInFlight(t *testing.T) {
	p := New(2)

	var done atomic.Bool
	require.NoError(t, p.Submit(func() {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
	}))

	p.Shutdown()
	assert.True(t, done.Load())
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.Submit(func() { wg.Done() }))
	wg.Wait()
}
