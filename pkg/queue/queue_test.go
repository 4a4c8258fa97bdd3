package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countJob struct {
	Delta int `json:"delta"`
}

var (
	countMu  sync.Mutex
	countSum int
	countCh  chan struct{}
)

func (j *countJob) Handle() error {
	countMu.Lock()
	countSum += j.Delta
	countMu.Unlock()
	countCh <- struct{}{}
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	SetDriver(NewMemoryDriver())
	SetRetries(1)
	Register("countJob", func() Job { return &countJob{} })

	countMu.Lock()
	countSum = 0
	countMu.Unlock()
	countCh = make(chan struct{}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 2)

	require.NoError(t, Dispatch("countJob", &countJob{Delta: 3}))
	require.NoError(t, Dispatch("countJob", &countJob{Delta: 4}))

	for i := 0; i < 2; i++ {
		select {
		case <-countCh:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}

	countMu.Lock()
	defer countMu.Unlock()
	assert.Equal(t, 7, countSum)
}

func TestUnregisteredJobIsSkipped(t *testing.T) {
	d := NewMemoryDriver()
	SetDriver(d)

	require.NoError(t, Dispatch("ghostJob", &countJob{Delta: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	raw, err := d.Pop(ctx)
	require.NoError(t, err)

	// Processing an unknown type must not panic.
	std.process(raw)
}

func TestMemoryDriverBackpressure(t *testing.T) {
	d := &MemoryDriver{ch: make(chan []byte, 1)}
	require.NoError(t, d.Push([]byte("a")))
	assert.ErrorIs(t, d.Push([]byte("b")), ErrQueueFull)
}
