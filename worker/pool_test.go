package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolRejectsNonPositiveSize(t *testing.T) {
	_, err := NewPool(0)
	require.Error(t, err)
}

func TestPoolSchedulesRoundRobin(t *testing.T) {
	p, err := NewPool(3)
	require.NoError(t, err)
	defer p.Close()

	var wg sync.WaitGroup
	wg.Add(6)
	for i := 0; i < 6; i++ {
		p.Schedule(func(ctx context.Context) {
			wg.Done()
		})
	}
	wg.Wait()
	p.Wait()
	assert.Equal(t, 0, p.GetActiveWorkerCount())
}

func TestPoolResizeGrowAndShrink(t *testing.T) {
	p, err := NewPool(2)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Resize(5))
	assert.Equal(t, 5, p.Size())

	require.NoError(t, p.Resize(1))
	assert.Equal(t, 1, p.Size())
}

func TestPoolInterruptAndClearQueueSettlesFleet(t *testing.T) {
	p, err := NewPool(2)
	require.NoError(t, err)
	defer p.Close()

	gate := make(chan struct{})
	p.Schedule(func(ctx context.Context) { <-ctx.Done() })
	p.Schedule(func(ctx context.Context) {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	})
	time.Sleep(20 * time.Millisecond)

	p.InterruptAndClearQueue()
	close(gate)

	assert.Equal(t, 0, p.GetActiveWorkerCount())
}

func TestPoolCloseAggregatesDoubleCloseErrors(t *testing.T) {
	p, err := NewPool(3)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	err = p.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 errors occurred")
}
