package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerRunsScheduledTask(t *testing.T) {
	w := NewWorker()
	defer w.Close()

	done := make(chan struct{})
	w.Schedule(func(ctx context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	w.Wait()
	assert.Equal(t, Idle, w.GetStatus())
}

func TestWorkerFIFOOrder(t *testing.T) {
	w := NewWorker()
	defer w.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		i := i
		w.Schedule(func(ctx context.Context) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestWorkerInterruptCancelsContext(t *testing.T) {
	w := NewWorker()
	defer w.Close()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	w.Schedule(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})

	<-started
	w.Interrupt(true)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("task's context was never cancelled")
	}
	assert.Equal(t, Idle, w.GetStatus())
}

func TestWorkerInterruptAndClearQueueDropsPending(t *testing.T) {
	w := NewWorker()
	defer w.Close()

	started := make(chan struct{})
	ran := make(chan struct{}, 1)
	w.Schedule(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	w.Schedule(func(ctx context.Context) { ran <- struct{}{} })

	<-started
	w.InterruptAndClearQueue(true)

	select {
	case <-ran:
		t.Fatal("cleared task must not run")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 0, w.Size())
}

func TestWorkerInterruptTwiceIsIdempotent(t *testing.T) {
	w := NewWorker()
	defer w.Close()
	w.Interrupt(true)
	w.Interrupt(true)
	assert.Equal(t, Idle, w.GetStatus())
}

func TestWaitForStatus(t *testing.T) {
	w := NewWorker()
	defer w.Close()

	gate := make(chan struct{})
	w.Schedule(func(ctx context.Context) { <-gate })

	workingReached := make(chan struct{})
	go func() {
		w.WaitForStatus(Working)
		close(workingReached)
	}()

	select {
	case <-workingReached:
	case <-time.After(time.Second):
		t.Fatal("never observed Working status")
	}
	close(gate)
	w.Wait()
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "Idle", Idle.String())
	require.Equal(t, "Working", Working.String())
	require.Equal(t, "Unknown", Status(99).String())
}

func TestWorkerCloseIsNotIdempotent(t *testing.T) {
	w := NewWorker()
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())
}
