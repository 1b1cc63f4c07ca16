package tetrisbeth

import (
	"sync"
	"time"

	"github.com/tetrisbeth/tetrisbeth/tlog"
)

// levelMillis returns the gravity period for the given level: each level
// above 1 shortens the period by 8%, floored at 50ms, mirroring the
// classic increasing-speed curve without pulling in a lookup table.
func levelMillis(base time.Duration, level int) time.Duration {
	if level < 1 {
		level = 1
	}
	factor := 1.0
	for i := 1; i < level; i++ {
		factor *= 0.92
	}
	millis := time.Duration(float64(base) * factor)
	if millis < 50*time.Millisecond {
		millis = 50 * time.Millisecond
	}
	return millis
}

// Gravity is the periodic timer that forces the active block downward at
// a level-scaled rate, per spec.md §5's "three independent periodic
// tasks" design note — it owns its own ticking goroutine rather than
// sharing one with ComputerPlayer or BlockMover.
type Gravity struct {
	game *Game
	base time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewGravity returns a Gravity bound to game, ticking at baseMillis for
// level 1 and scaling faster at higher levels.
func NewGravity(game *Game, baseMillis int) *Gravity {
	return &Gravity{game: game, base: time.Duration(baseMillis) * time.Millisecond}
}

// Start begins the periodic loop on a new goroutine. Calling Start twice
// without an intervening Stop is a no-op.
func (g *Gravity) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return
	}
	g.running = true
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	go g.loop(g.stop, g.done)
}

func (g *Gravity) loop(stop, done chan struct{}) {
	defer close(done)
	for {
		period := levelMillis(g.base, g.game.Level())
		timer := time.NewTimer(period)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			g.tick()
		}
	}
}

func (g *Gravity) tick() {
	if g.game.IsPaused() || g.game.IsGameOver() {
		return
	}
	if !g.game.Move(Down) {
		tlog.Log("gravity", tlog.Info, "active block landed, committing")
		g.game.DropAndCommit()
	}
}

// Stop halts the periodic loop and waits for its goroutine to exit.
// Stopping an already-stopped Gravity is a no-op.
func (g *Gravity) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	stop, done := g.stop, g.done
	g.mu.Unlock()

	close(stop)
	<-done
}
