package tetrisbeth

import (
	"sync"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/tetrisbeth/tetrisbeth/board"
	"github.com/tetrisbeth/tetrisbeth/search"
	"github.com/tetrisbeth/tetrisbeth/tetriserr"
	"github.com/tetrisbeth/tetrisbeth/tlog"
	"github.com/tetrisbeth/tetrisbeth/worker"
)

// CPState is the ComputerPlayer's own lifecycle state, distinct from the
// NodeCalculator's Status: it tracks whether this component currently
// owns a live search, not how far that search has progressed.
type CPState int32

const (
	CPIdle CPState = iota
	CPCalculating
	CPHarvesting
)

func (s CPState) String() string {
	switch s {
	case CPIdle:
		return "Idle"
	case CPCalculating:
		return "Calculating"
	case CPHarvesting:
		return "Harvesting"
	default:
		return "Unknown"
	}
}

// minPrecalculated is the low-water mark of precomputed moves below which
// ComputerPlayer starts a fresh search.
const minPrecalculated = 8

// lowTimeBudget is how much estimated time-to-land must remain before
// ComputerPlayer will let an in-flight search keep running with nothing
// queued behind it; below this it stops the search early rather than risk
// missing the landing.
const lowTimeBudget = 1 * time.Second

// clamp restricts v to [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TweakResult lets a Tweaker override a search's parameters just before it
// starts. ComputerPlayer clamps the returned depth, width, worker count and
// move speed to their allowed ranges before using them.
type TweakResult struct {
	Depth       int
	Width       int
	WorkerCount int
	MoveSpeed   int
	Evaluator   board.Evaluator
}

// Tweaker is an optional hook consulted before every search launch,
// letting a caller adapt depth/width/worker count/move speed/evaluator to
// the live board state (e.g. widen the search once the stack gets low). A
// Tweaker that doesn't want to override the evaluator must still return
// one — there is no sentinel "unset" Evaluator value.
type Tweaker func(state board.GameState, depth, width int) TweakResult

// ComputerPlayer is the background control loop that keeps Game's
// precomputed timeline populated: on a fixed tick it checks whether the
// current search is running low on runway, harvests a finished search's
// result onto the live timeline, and starts a new search whenever the
// plan runs short.
type ComputerPlayer struct {
	game       *Game
	pool       *worker.Pool
	main       *worker.Worker
	blockMover *BlockMover

	defaultEval board.Evaluator
	tweaker     Tweaker

	mu          sync.Mutex
	state       CPState
	calc        *search.NodeCalculator
	depth       int
	width       int
	workerCount int
	moveSpeed   int
	gravityBase time.Duration

	running bool
	stop    chan struct{}
	done    chan struct{}
	tick    time.Duration
}

// NewComputerPlayer constructs a ComputerPlayer bound to game, owning its
// own worker pool of cfg.WorkerCount workers.
func NewComputerPlayer(game *Game, cfg Config, eval board.Evaluator) (*ComputerPlayer, error) {
	if !cfg.IsValid() {
		return nil, tetriserr.New(tetriserr.Validation, "tetrisbeth.NewComputerPlayer", "invalid config")
	}
	pool, err := worker.NewPool(cfg.WorkerCount)
	if err != nil {
		return nil, err
	}
	main := worker.NewWorker()
	return &ComputerPlayer{
		game:        game,
		pool:        pool,
		main:        main,
		defaultEval: eval,
		state:       CPIdle,
		depth:       cfg.SearchDepth,
		width:       cfg.SearchWidth,
		workerCount: cfg.WorkerCount,
		moveSpeed:   cfg.MoveSpeed,
		gravityBase: time.Duration(cfg.GravityBaseMillis) * time.Millisecond,
		tick:        time.Duration(cfg.ComputerPlayerTickMillis) * time.Millisecond,
	}, nil
}

// SetTweaker installs (or clears, with nil) the search-parameter hook.
func (cp *ComputerPlayer) SetTweaker(t Tweaker) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.tweaker = t
}

// SetBlockMover binds a BlockMover whose move speed is updated whenever a
// Tweaker overrides it. Optional — a nil BlockMover simply means move
// speed overrides are computed but never applied anywhere.
func (cp *ComputerPlayer) SetBlockMover(m *BlockMover) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.blockMover = m
}

// State returns the ComputerPlayer's current lifecycle state.
func (cp *ComputerPlayer) State() CPState {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.state
}

// Start begins the periodic control loop on a new goroutine. Calling
// Start twice without an intervening Stop is a no-op.
func (cp *ComputerPlayer) Start() {
	cp.mu.Lock()
	if cp.running {
		cp.mu.Unlock()
		return
	}
	cp.running = true
	cp.stop = make(chan struct{})
	cp.done = make(chan struct{})
	stop, done := cp.stop, cp.done
	cp.mu.Unlock()
	go cp.loop(stop, done)
}

func (cp *ComputerPlayer) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(cp.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cp.tickOnce()
		}
	}
}

// tickOnce runs one control-loop pass: babysit a running search, harvest a
// finished one, and start a new one if the plan is running short.
func (cp *ComputerPlayer) tickOnce() {
	cp.mu.Lock()
	calc := cp.calc
	cp.mu.Unlock()

	if calc != nil {
		status := calc.Status()
		switch status {
		case search.Finished, search.Stopped, search.Error:
			cp.harvest(calc)
			return
		default:
			if cp.game.NumPrecalculatedMoves() == 0 && cp.estimateRemainingLandingTime() < lowTimeBudget {
				calc.Stop()
			}
			return
		}
	}

	if cp.game.NumPrecalculatedMoves() < minPrecalculated && !cp.game.IsGameOver() {
		cp.startSearch()
	}
}

// estimateRemainingLandingTime returns a conservative upper bound on how
// much time remains before gravity forces a commit at the current level —
// the full gravity period, since ComputerPlayer does not track how long
// the active block has already been falling.
func (cp *ComputerPlayer) estimateRemainingLandingTime() time.Duration {
	cp.mu.Lock()
	base := cp.gravityBase
	cp.mu.Unlock()
	return levelMillis(base, cp.game.Level())
}

// harvest splices a terminal search's result onto the live timeline and
// releases the calculator. A "too slow" Splice failure is logged and
// discarded rather than treated as fatal — the next tick will simply
// start a fresh search.
func (cp *ComputerPlayer) harvest(calc *search.NodeCalculator) {
	cp.mu.Lock()
	cp.state = CPHarvesting
	cp.mu.Unlock()

	if leaf, ok := calc.Result(); ok {
		if err := cp.game.Splice(calc.Root(), leaf); err != nil {
			tlog.Log("computer-player", tlog.Warning, err.Error())
		}
	}

	cp.mu.Lock()
	cp.calc = nil
	cp.state = CPIdle
	cp.mu.Unlock()
}

// startSearch clones the live endNode as a fresh search root, consults the
// Tweaker (if any) for parameter overrides, resizes the pool and updates
// the bound BlockMover's speed if needed, and launches a new
// NodeCalculator.
func (cp *ComputerPlayer) startSearch() {
	root := cp.game.EndNode().Clone()

	cp.mu.Lock()
	depth := cp.depth
	width := cp.width
	workerCount := cp.workerCount
	moveSpeed := cp.moveSpeed
	eval := cp.defaultEval
	tweaker := cp.tweaker
	mover := cp.blockMover
	cp.mu.Unlock()

	if tweaker != nil {
		result := tweaker(root.State(), depth, width)
		depth = clamp(result.Depth, 1, 100)
		width = clamp(result.Width, 1, 100)
		workerCount = clamp(result.WorkerCount, 1, 128)
		moveSpeed = clamp(result.MoveSpeed, 1, 1000)
		eval = result.Evaluator
	}

	if cp.pool.Size() != workerCount {
		if err := cp.pool.Resize(workerCount); err != nil {
			tlog.Log("computer-player", tlog.ErrorLevel, err.Error())
			return
		}
	}
	if mover != nil {
		mover.SetSpeed(moveSpeed)
	}

	blockTypes := cp.game.GetFutureBlocks(depth)
	if len(blockTypes) == 0 {
		return
	}
	widths := make([]int, len(blockTypes))
	for i := range widths {
		widths[i] = width
	}

	calc, err := search.New(root, blockTypes, widths, eval, cp.pool, cp.main)
	if err != nil {
		tlog.Log("computer-player", tlog.ErrorLevel, err.Error())
		return
	}

	cp.mu.Lock()
	cp.calc = calc
	cp.state = CPCalculating
	cp.mu.Unlock()

	calc.Start()
}

// Stop halts the control loop, stops any in-flight search, and waits for
// the loop goroutine to exit. Stopping an already-stopped ComputerPlayer
// is a no-op.
func (cp *ComputerPlayer) Stop() {
	cp.mu.Lock()
	if !cp.running {
		cp.mu.Unlock()
		return
	}
	cp.running = false
	stop, done := cp.stop, cp.done
	calc := cp.calc
	cp.mu.Unlock()

	close(stop)
	<-done
	if calc != nil {
		calc.Stop()
	}
}

// Close stops the control loop and tears down the owned worker pool and
// main worker, aggregating any teardown failures from the two into a
// single error via go-multierror.
func (cp *ComputerPlayer) Close() error {
	cp.Stop()

	var agg tetriserr.Aggregator
	agg.Add(cp.pool.Close())
	agg.Add(cp.main.Close())
	return agg.ErrorOrNil()
}
