package worker

import (
	"sync"

	"github.com/tetrisbeth/tetrisbeth/tetriserr"
)

// Pool is a fixed-size set of Workers dispatched round-robin. Its size is
// changed only through Resize.
type Pool struct {
	mu      sync.Mutex
	workers []*Worker
	next    int
}

// NewPool returns a Pool with n Workers already running. n must be
// positive.
func NewPool(n int) (*Pool, error) {
	if n < 1 {
		return nil, tetriserr.New(tetriserr.Validation, "worker.NewPool", "worker count must be at least 1")
	}
	p := &Pool{workers: make([]*Worker, n)}
	for i := range p.workers {
		p.workers[i] = NewWorker()
	}
	return p, nil
}

// Size returns the current number of workers.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// Resize grows or shrinks the pool to exactly n workers. Shrinking
// interrupts and closes the to-be-removed workers first, draining their
// queues before they are discarded.
func (p *Pool) Resize(n int) error {
	if n < 1 {
		return tetriserr.New(tetriserr.Validation, "worker.Pool.Resize", "worker count must be at least 1")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current := len(p.workers)
	switch {
	case n > current:
		for i := current; i < n; i++ {
			p.workers = append(p.workers, NewWorker())
		}
	case n < current:
		removed := p.workers[n:]
		p.workers = p.workers[:n]
		for _, w := range removed {
			w.InterruptAndClearQueue(true)
			w.Close()
		}
	}
	if p.next >= len(p.workers) {
		p.next = 0
	}
	return nil
}

// Schedule dispatches task to the next worker in round-robin order.
func (p *Pool) Schedule(task Task) {
	p.mu.Lock()
	w := p.workers[p.next]
	p.next = (p.next + 1) % len(p.workers)
	p.mu.Unlock()
	w.Schedule(task)
}

// Wait blocks until every worker's queue is empty and every worker is
// Idle.
func (p *Pool) Wait() {
	for _, w := range p.workerSnapshot() {
		w.Wait()
	}
}

// InterruptAndClearQueue interrupts and clears every worker's queue, then
// waits for the whole fleet to settle at Idle. After it returns,
// GetActiveWorkerCount is 0 and every queue is empty.
func (p *Pool) InterruptAndClearQueue() {
	var wg sync.WaitGroup
	workers := p.workerSnapshot()
	wg.Add(len(workers))
	for _, w := range workers {
		go func(w *Worker) {
			defer wg.Done()
			w.InterruptAndClearQueue(true)
		}(w)
	}
	wg.Wait()
}

// GetActiveWorkerCount returns the number of workers currently Working.
func (p *Pool) GetActiveWorkerCount() int {
	count := 0
	for _, w := range p.workerSnapshot() {
		if w.GetStatus() == Working {
			count++
		}
	}
	return count
}

// Close interrupts, clears, and shuts down every worker in the pool,
// aggregating any per-worker teardown failures (e.g. a worker already
// closed by a concurrent caller) into a single error via go-multierror so
// a bad fleet-wide teardown is reported completely rather than on the
// first failure.
func (p *Pool) Close() error {
	var agg tetriserr.Aggregator
	for _, w := range p.workerSnapshot() {
		w.InterruptAndClearQueue(true)
		agg.Add(w.Close())
	}
	return agg.ErrorOrNil()
}

func (p *Pool) workerSnapshot() []*Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Worker, len(p.workers))
	copy(out, p.workers)
	return out
}
