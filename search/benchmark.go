package search

import (
	"time"

	"github.com/tetrisbeth/tetrisbeth/board"
	"github.com/tetrisbeth/tetrisbeth/worker"
)

// BenchmarkResult summarizes one fixed-depth search run, mirroring the
// original engine's benchmark harness intent without its GUI: total nodes
// produced, wall-clock duration, and the derived throughput.
type BenchmarkResult struct {
	Nodes       int
	Duration    time.Duration
	NodesPerSec float64
}

// Benchmark runs a complete NodeCalculator search to a fixed depth/width
// against a fresh root (an empty grid of the given dimensions) and reports
// its throughput. It is a test and tuning helper, never called from the
// live game loop.
func Benchmark(rows, cols int, eval board.Evaluator, blockTypes []board.CellType, widths []int, poolSize int) (BenchmarkResult, error) {
	pool, err := worker.NewPool(poolSize)
	if err != nil {
		return BenchmarkResult{}, err
	}
	defer pool.Close()
	main := worker.NewWorker()
	defer main.Close()

	tree := NewTree()
	root := tree.NewRoot(board.NewGameState(rows, cols), eval)

	calc, err := New(root, blockTypes, widths, eval, pool, main)
	if err != nil {
		return BenchmarkResult{}, err
	}

	start := time.Now()
	calc.Start()
	for calc.Status() != Finished {
		if calc.Status() == Error {
			break
		}
		time.Sleep(time.Millisecond)
	}
	elapsed := time.Since(start)

	nodes := tree.Len()
	result := BenchmarkResult{Nodes: nodes, Duration: elapsed}
	if elapsed > 0 {
		result.NodesPerSec = float64(nodes) / elapsed.Seconds()
	}
	return result, nil
}
