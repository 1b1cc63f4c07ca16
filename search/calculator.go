package search

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"

	"github.com/tetrisbeth/tetrisbeth/board"
	"github.com/tetrisbeth/tetrisbeth/tetriserr"
	"github.com/tetrisbeth/tetrisbeth/tlog"
	"github.com/tetrisbeth/tetrisbeth/worker"
)

// Status is a NodeCalculator's lifecycle state. Transitions are monotonic
// except that Working repeats across plies.
type Status int32

const (
	Idle Status = iota
	Started
	Working
	Finished
	Stopped
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Started:
		return "Started"
	case Working:
		return "Working"
	case Finished:
		return "Finished"
	case Stopped:
		return "Stopped"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// plyRecord tracks the completed state for one ply: how many nodes it
// produced and which one scored best.
type plyRecord struct {
	nodeCount int
	best      SearchNode
	hasBest   bool
}

// NodeCalculator runs the iterative-deepening, fan-out-bounded search: for
// targetDepth 1..len(blockTypes), it descends the tree built so far,
// fans out every leaf at the target ply, prunes to that ply's width by
// evaluator score, and waits for the pool to drain before advancing.
type NodeCalculator struct {
	tree       *Tree
	root       SearchNode
	blockTypes []board.CellType
	widths     []int
	eval       board.Evaluator
	pool       *worker.Pool
	main       *worker.Worker

	mu      sync.Mutex
	status  Status
	plies   []plyRecord // index i = ply i+1
	quit    atomic.Bool
	started atomic.Bool

	done chan struct{}
}

// New constructs a NodeCalculator. rootNode should be a clone of the live
// endNode, owned exclusively by this calculator until a result is
// spliced elsewhere. len(blockTypes) must equal len(widths); both must be
// non-empty.
func New(rootNode SearchNode, blockTypes []board.CellType, widths []int, eval board.Evaluator, pool *worker.Pool, main *worker.Worker) (*NodeCalculator, error) {
	if len(blockTypes) == 0 || len(widths) == 0 {
		return nil, tetriserr.New(tetriserr.Validation, "search.New", "blockTypes and widths must be non-empty")
	}
	if len(blockTypes) != len(widths) {
		return nil, tetriserr.New(tetriserr.Validation, "search.New", "blockTypes and widths must have equal length")
	}
	if len(widths) > 100 {
		return nil, tetriserr.New(tetriserr.Validation, "search.New", "plan depth must not exceed 100")
	}
	for _, w := range widths {
		if w < 1 || w > 100 {
			return nil, tetriserr.New(tetriserr.Validation, "search.New", "every width must be in [1,100]")
		}
	}
	return &NodeCalculator{
		tree:       rootNode.tree,
		root:       rootNode,
		blockTypes: blockTypes,
		widths:     widths,
		eval:       eval.Clone(),
		pool:       pool,
		main:       main,
		status:     Idle,
		plies:      make([]plyRecord, len(blockTypes)),
		done:       make(chan struct{}),
	}, nil
}

// Root returns the search root this calculator was constructed with —
// the node a caller must pass to CarveBestPath/Graft (via Result) when
// splicing this run's outcome elsewhere.
func (c *NodeCalculator) Root() SearchNode { return c.root }

// MaxSearchDepth returns D, the total number of plies this run will
// attempt.
func (c *NodeCalculator) MaxSearchDepth() int { return len(c.blockTypes) }

// CurrentSearchDepth returns the highest completed ply (0 if none yet).
func (c *NodeCalculator) CurrentSearchDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.plies) - 1; i >= 0; i-- {
		if c.plies[i].hasBest || c.plies[i].nodeCount > 0 {
			return i + 1
		}
	}
	return 0
}

// NodeCountAtPly returns the number of nodes generated at the given
// 1-indexed ply.
func (c *NodeCalculator) NodeCountAtPly(ply int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ply < 1 || ply > len(c.plies) {
		return 0
	}
	return c.plies[ply-1].nodeCount
}

// BestNodeAtPly returns the best node known at the given 1-indexed ply.
func (c *NodeCalculator) BestNodeAtPly(ply int) (SearchNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ply < 1 || ply > len(c.plies) {
		return SearchNode{}, false
	}
	r := c.plies[ply-1]
	return r.best, r.hasBest
}

// MeanScoreAtPly returns the arithmetic mean of every child score
// produced at the given ply, computed with gonum/stat for the pool's
// progress-reporting diagnostics. It returns (0, false) if no node
// scores were recorded at that ply.
func (c *NodeCalculator) MeanScoreAtPly(ply int) (float64, bool) {
	scores := c.scoresAtPly(ply)
	if len(scores) == 0 {
		return 0, false
	}
	return stat.Mean(scores, nil), true
}

func (c *NodeCalculator) scoresAtPly(ply int) []float64 {
	if ply < 1 || ply > len(c.blockTypes) {
		return nil
	}
	var scores []float64
	var walk func(n SearchNode)
	walk = func(n SearchNode) {
		for _, kid := range n.Children() {
			if kid.Depth() == c.root.Depth()+ply {
				if s, ok := kid.Score(); ok {
					scores = append(scores, float64(s))
				}
			} else if kid.Depth() < c.root.Depth()+ply {
				walk(kid)
			}
		}
	}
	walk(c.root)
	return scores
}

// Status returns the calculator's current status.
func (c *NodeCalculator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *NodeCalculator) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Start runs the iterative-deepening loop on the calculator's main
// worker, returning immediately; call Result (after waiting for a
// terminal status) to retrieve the outcome.
func (c *NodeCalculator) Start() {
	c.started.Store(true)
	c.setStatus(Started)
	c.main.Schedule(func(ctx context.Context) {
		c.run(ctx)
		close(c.done)
	})
}

// Stop requests cancellation: it is idempotent, and safe to call whether
// or not a run is in progress. It sets the quit flag and interrupts every
// worker's in-flight task so each reaches its checkpoint promptly, then —
// if Start has actually been called — blocks until the run loop has
// observed the request and exited. Calling Stop before Start simply
// records the cancellation so the run exits immediately once it does
// start, rather than blocking on a done channel nothing will ever close.
func (c *NodeCalculator) Stop() {
	if !c.quit.CompareAndSwap(false, true) {
		return // already stopped
	}
	c.pool.InterruptAndClearQueue()
	c.main.Interrupt(false)
	if c.started.Load() {
		<-c.done
	}
}

// Result returns the best descendant node known at the highest completed
// ply (Finished or Stopped). It returns (nil-handle, false) if no ply has
// completed.
func (c *NodeCalculator) Result() (SearchNode, bool) {
	depth := c.CurrentSearchDepth()
	if depth == 0 {
		return SearchNode{}, false
	}
	return c.BestNodeAtPly(depth)
}

// run is the iterative-deepening outer loop, executed on the main
// worker's goroutine.
func (c *NodeCalculator) run(ctx context.Context) {
	c.setStatus(Working)
	for targetDepth := 1; targetDepth <= len(c.blockTypes); targetDepth++ {
		if c.quit.Load() {
			c.setStatus(Stopped)
			return
		}

		if err := c.expandToDepth(c.root, targetDepth); err != nil {
			tlog.Log("search", tlog.ErrorLevel, err.Error())
			c.setStatus(Error)
			return
		}
		c.pool.Wait()

		if c.quit.Load() {
			c.setStatus(Stopped)
			return
		}

		c.recordPly(targetDepth)
		c.setStatus(Working)
	}
	c.setStatus(Finished)
}

// expandToDepth recursively descends from n: at any non-leaf depth below
// targetDepth it recurses into existing children; at depth
// targetDepth-1 it submits one fan-out task per leaf to the pool.
func (c *NodeCalculator) expandToDepth(n SearchNode, targetDepth int) error {
	relativeDepth := n.Depth() - c.root.Depth()
	if relativeDepth == targetDepth-1 {
		c.scheduleFanOut(n, relativeDepth)
		return nil
	}
	if relativeDepth >= targetDepth {
		return nil
	}
	for _, kid := range n.Children() {
		if err := c.expandToDepth(kid, targetDepth); err != nil {
			return err
		}
	}
	return nil
}

// scheduleFanOut submits a single fan-out task for leaf n to the pool:
// generate all legal placements of blockTypes[relativeDepth], score them,
// keep the top width, attach as children.
func (c *NodeCalculator) scheduleFanOut(n SearchNode, relativeDepth int) {
	if len(n.Children()) > 0 {
		return // already expanded at an earlier ply's descent
	}
	if n.State().GameOver() {
		return // a game-over state is a leaf; its branch ends here
	}
	blockType := c.blockTypes[relativeDepth]
	width := c.widths[relativeDepth]
	eval := c.eval

	c.pool.Schedule(func(ctx context.Context) {
		GenerateOffspring(n, blockType, width, eval)
	})
}

// recordPly walks the tree to depth targetDepth and records the node
// count and best node seen at that ply.
func (c *NodeCalculator) recordPly(targetDepth int) {
	count := 0
	var best SearchNode
	hasBest := false

	var walk func(n SearchNode)
	walk = func(n SearchNode) {
		relativeDepth := n.Depth() - c.root.Depth()
		if relativeDepth == targetDepth {
			count++
			if score, ok := n.Score(); ok {
				if !hasBest {
					best, hasBest = n, true
				} else if bestScore, _ := best.Score(); score > bestScore {
					best = n
				}
			}
			return
		}
		for _, kid := range n.Children() {
			walk(kid)
		}
	}
	walk(c.root)

	c.mu.Lock()
	c.plies[targetDepth-1] = plyRecord{nodeCount: count, best: best, hasBest: hasBest}
	c.mu.Unlock()
}

// GenerateOffspring fans a single leaf out into its children for one
// ply: if the block cannot even spawn, the leaf gets one
// commit-with-gameOver child and the branch ends there. Otherwise every
// legal (rotation, column) landing is scored and the top `width` are
// kept, attached in descending-score order.
func GenerateOffspring(parent SearchNode, blockType board.CellType, width int, eval board.Evaluator) {
	state := parent.State()

	if board.SpawnOverlaps(state, blockType) {
		spawnBlock := board.ActiveBlock{Type: blockType, Column: board.SpawnColumn(state, blockType)}
		terminal := state.Commit(spawnBlock, true)
		parent.AddChild(terminal, eval, eval.Evaluate(terminal))
		return
	}

	placements := board.LegalPlacements(state, blockType)
	type scored struct {
		state board.GameState
		score int
	}
	candidates := make([]scored, 0, len(placements))
	for _, p := range placements {
		next := state.Commit(p.Block, false)
		candidates = append(candidates, scored{state: next, score: eval.Evaluate(next)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > width {
		candidates = candidates[:width]
	}
	for _, cand := range candidates {
		parent.AddChild(cand.state, eval, cand.score)
	}
}
