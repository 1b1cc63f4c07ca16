package tetrisbeth

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
)

// baseMoverHz is the BlockMover's fixed base tick rate; the configured
// move speed then throttles how many of those base ticks actually issue
// a move command, per spec.md §4.8's "~100 Hz base tick; effective move
// rate configurable 1..1000/sec".
const baseMoverHz = 100

// emaAlpha weights each new inter-move interval into the running
// actualSpeed estimate; lower values smooth harder.
const emaAlpha float32 = 0.2

// minInterval floors the measured gap between two moves before it is
// inverted into an instantaneous rate, guarding against a division by
// (near) zero when two moves land in the same base tick.
const minInterval float32 = 1e-3

// BlockMover is the periodic actuator that walks the live active block
// toward the first planned child, one base tick at a time.
type BlockMover struct {
	game *Game

	mu            sync.Mutex
	speed         int  // moves per second, configured
	immediateDrop bool // down-behavior: dropAndCommit immediately vs single-step move(Down)
	running       bool
	stop       chan struct{}
	done       chan struct{}
	ticksSince float32 // fractional base-ticks accumulated toward the next move

	lastMoveAt time.Time // timestamp of the previous actual move, for the EMA
	emaSpeed   float32   // exponentially-smoothed observed moves/sec
}

// NewBlockMover returns a BlockMover bound to game at the given initial
// move speed (moves per second, clamped to [1,1000]).
func NewBlockMover(game *Game, movesPerSecond int) *BlockMover {
	return &BlockMover{game: game, speed: clampMoveSpeed(movesPerSecond), immediateDrop: true}
}

// SetImmediateDrop configures the down-behavior once rotation and column
// match the target: true commits immediately, false single-steps with
// move(Down) instead (gravity then eventually lands it).
func (m *BlockMover) SetImmediateDrop(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.immediateDrop = v
}

func clampMoveSpeed(v int) int {
	if v < 1 {
		return 1
	}
	if v > 1000 {
		return 1000
	}
	return v
}

// SetSpeed updates the configured move rate.
func (m *BlockMover) SetSpeed(movesPerSecond int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = clampMoveSpeed(movesPerSecond)
}

// Start begins the periodic loop. Calling Start twice without an
// intervening Stop is a no-op.
func (m *BlockMover) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
}

func (m *BlockMover) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(time.Second / baseMoverHz)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.baseTick()
		}
	}
}

// baseTick fires at the fixed base rate and performs as many actuation
// steps as the configured speed has accumulated since the last base tick
// (more than one per tick once the speed exceeds baseMoverHz).
func (m *BlockMover) baseTick() {
	m.mu.Lock()
	speed := m.speed
	m.ticksSince += float32(speed)
	due := 0
	for m.ticksSince >= baseMoverHz {
		m.ticksSince -= baseMoverHz
		due++
	}
	m.mu.Unlock()

	for i := 0; i < due; i++ {
		m.actuate()
	}
}

// actuate performs one step of spec.md §4.8's decision tree. While the
// game is paused or over it does nothing; the base tick that called it has
// still consumed its share of the timing budget.
func (m *BlockMover) actuate() {
	if m.game.IsPaused() || m.game.IsGameOver() {
		return
	}
	child, ok := m.game.FirstPlannedChild()
	if !ok {
		return
	}
	target, ok := child.State().OriginalBlock()
	if !ok {
		return
	}

	active := m.game.ActiveBlock()
	switch {
	case active.Rotation != target.Rotation:
		if !m.game.Rotate() {
			m.game.DropAndCommit()
		}
	case active.Column < target.Column:
		if !m.game.Move(Right) {
			m.game.DropAndCommit()
		}
	case active.Column > target.Column:
		if !m.game.Move(Left) {
			m.game.DropAndCommit()
		}
	default:
		m.mu.Lock()
		immediate := m.immediateDrop
		m.mu.Unlock()
		if immediate {
			m.game.DropAndCommit()
		} else {
			m.game.Move(Down)
		}
	}
	m.recordMove()
}

func (m *BlockMover) recordMove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if !m.lastMoveAt.IsZero() {
		dt := math32.Max(float32(now.Sub(m.lastMoveAt).Seconds()), minInterval)
		instant := 1 / dt
		m.emaSpeed = emaAlpha*instant + (1-emaAlpha)*m.emaSpeed
	}
	m.lastMoveAt = now
}

// ActualSpeed returns the observed move rate (moves per second), smoothed
// with an exponential moving average over actual move events.
func (m *BlockMover) ActualSpeed() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emaSpeed
}

// Stop halts the periodic loop and waits for its goroutine to exit.
// Stopping an already-stopped BlockMover is a no-op.
func (m *BlockMover) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
}
