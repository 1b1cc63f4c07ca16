// Package tetrisbeth wires the board, search, and worker packages into a
// live, gravity-driven game: a timeline of precomputed SearchNodes, a
// computer-player control loop that keeps that timeline populated, and a
// block-mover that walks the active piece toward the plan.
package tetrisbeth

import (
	"sync"
	"time"

	"github.com/tetrisbeth/tetrisbeth/board"
	"github.com/tetrisbeth/tetrisbeth/search"
	"github.com/tetrisbeth/tetrisbeth/tetriserr"
)

// Direction is a move request. Up is a no-op in standard play, kept only
// for interface symmetry with the original engine's direction enum.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Game holds the live timeline: a committed chain of SearchNodes from
// currentNode to endNode (the precomputed plan, possibly empty beyond
// currentNode), the block currently falling but not yet committed, the
// upcoming-blocks buffer, and the level/pause state. All mutation happens
// under mu; readers may take the read lock concurrently with each other
// but never with a writer — mirroring spec.md §5's single-writer-or-
// multi-reader policy for the live Game.
type Game struct {
	mu sync.RWMutex

	tree        *search.Tree
	currentNode search.SearchNode
	endNode     search.SearchNode

	active board.ActiveBlock

	bag      *board.Bag
	upcoming *board.UpcomingBuffer
	garbage  *board.GarbageBag

	level         int
	paused        bool
	defaultEval   board.Evaluator

	events *eventQueue
}

// NewGame constructs a fresh Game per cfg: an empty grid, a new 7-bag
// seeded from the wall clock, and the first active block already spawned.
func NewGame(cfg Config) (*Game, error) {
	if !cfg.IsValid() {
		return nil, tetriserr.New(tetriserr.Validation, "tetrisbeth.NewGame", "invalid config")
	}

	tree := search.NewTree()
	eval := board.NewEvaluator(cfg.EvaluatorPreset)
	root := tree.NewRoot(board.NewGameState(cfg.Rows, cfg.Cols), eval)

	bag := board.NewBag(time.Now().UnixNano())
	upcoming := board.NewUpcomingBuffer(bag)

	g := &Game{
		tree:        tree,
		currentNode: root,
		endNode:     root,
		bag:         bag,
		upcoming:    upcoming,
		garbage:     board.NewGarbageBag(),
		level:       cfg.StartingLevel,
		defaultEval: eval,
		events:      newEventQueue(256),
	}
	g.active = g.spawnActive(upcoming.At(0))
	return g, nil
}

// spawnActive returns the given type's active block at its default spawn
// position against the current committed grid. Caller must hold mu.
func (g *Game) spawnActive(t board.CellType) board.ActiveBlock {
	return board.ActiveBlock{
		Type:   t,
		Column: board.SpawnColumn(g.currentNode.State(), t),
	}
}

// RegisterEventHandler adds h to the set of handlers notified by future
// state changes.
func (g *Game) RegisterEventHandler(h EventHandler) {
	g.events.Register(h)
}

// FlushEvents drains up to n pending events (0 = all) on the calling
// goroutine.
func (g *Game) FlushEvents(n int) {
	g.events.FlushEvents(n)
}

// Move attempts to translate the active block one cell in dir. Up is
// always a no-op success. Down additionally detects landing: if the
// block cannot move down because it has settled, the caller (gravity or
// BlockMover) should call DropAndCommit instead — Move itself never
// commits.
func (g *Game) Move(dir Direction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused || g.isGameOverLocked() {
		return false
	}

	var candidate board.ActiveBlock
	switch dir {
	case Up:
		return true
	case Down:
		candidate = g.active.Moved(1, 0)
	case Left:
		candidate = g.active.Moved(0, -1)
	case Right:
		candidate = g.active.Moved(0, 1)
	default:
		return false
	}

	if !g.currentNode.State().CheckPositionValid(candidate) {
		return false
	}
	g.active = candidate
	return true
}

// Rotate attempts to rotate the active block one step. Returns false if
// the rotated shape would be invalid (no wall-kick is attempted).
func (g *Game) Rotate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused || g.isGameOverLocked() {
		return false
	}
	candidate := g.active.Rotated()
	if !g.currentNode.State().CheckPositionValid(candidate) {
		return false
	}
	g.active = candidate
	return true
}

// Drop moves the active block straight down to its resting row without
// committing it — a hard-drop preview.
func (g *Game) Drop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused || g.isGameOverLocked() {
		return
	}
	if row, ok := board.DropRow(g.currentNode.State(), g.active); ok {
		g.active.Row = row
	}
}

// DropAndCommit drops the active block to its resting row, commits it
// into the timeline (advancing currentNode — reusing an already-
// precomputed child if the committed block matches it exactly, or
// creating a fresh one and discarding any stale plan otherwise), spawns
// the next active block, and fires the change events.
func (g *Game) DropAndCommit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused || g.isGameOverLocked() {
		return
	}
	if row, ok := board.DropRow(g.currentNode.State(), g.active); ok {
		g.active.Row = row
	}
	g.commitActiveLocked()
}

// commitActiveLocked performs the commit half of DropAndCommit. Caller
// must hold mu.
func (g *Game) commitActiveLocked() {
	linesBefore := g.currentNode.State().Stats().NumLines
	if matched := g.matchingPrecomputedChildLocked(); matched.Valid() {
		g.currentNode = matched
	} else {
		g.currentNode.ClearChildren()
		nextBlockType := g.upcoming.At(g.currentNode.Depth() + 1)
		provisional := g.currentNode.State().Commit(g.active, false)
		gameOver := board.SpawnOverlaps(provisional, nextBlockType)
		committed := g.currentNode.State().Commit(g.active, gameOver)
		score := g.defaultEval.Evaluate(committed)
		g.currentNode = g.currentNode.AddChild(committed, g.defaultEval, score)
	}
	if g.endNode.Depth() < g.currentNode.Depth() {
		g.endNode = g.currentNode
	}

	cleared := g.currentNode.State().Stats().NumLines - linesBefore
	g.events.postStateChanged(g)
	if cleared > 0 {
		g.events.postLinesCleared(g, cleared)
	}

	if !g.currentNode.State().GameOver() {
		nextType := g.upcoming.At(g.currentNode.Depth())
		g.active = g.spawnActive(nextType)
	}
}

// matchingPrecomputedChildLocked returns the currentNode's existing
// child whose originating block exactly matches the active block, if
// one exists — the case where the plan and the live commit agree and no
// precomputed work needs discarding.
func (g *Game) matchingPrecomputedChildLocked() search.SearchNode {
	for _, kid := range g.currentNode.Children() {
		block, ok := kid.State().OriginalBlock()
		if ok && block == g.active {
			return kid
		}
	}
	return search.SearchNode{}
}

// SetPaused toggles pause. While paused, Move/Rotate/Drop/DropAndCommit
// are all no-ops.
func (g *Game) SetPaused(p bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = p
}

// IsPaused reports the current pause state.
func (g *Game) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// IsGameOver reports whether the live end of the committed timeline is a
// terminal state.
func (g *Game) IsGameOver() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isGameOverLocked()
}

func (g *Game) isGameOverLocked() bool {
	return g.currentNode.State().GameOver()
}

// Level returns the current level.
func (g *Game) Level() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.level
}

// SetStartingLevel overrides the level.
func (g *Game) SetStartingLevel(level int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.level = level
}

// ActiveBlock returns the block currently falling but not yet committed.
func (g *Game) ActiveBlock() board.ActiveBlock {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// GameGrid returns the committed grid (not including the active block).
func (g *Game) GameGrid() board.Grid {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentNode.State().Grid()
}

// CurrentNode returns the live committed node.
func (g *Game) CurrentNode() search.SearchNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentNode
}

// EndNode returns the tail of the precomputed chain — the point from
// which a new search should start.
func (g *Game) EndNode() search.SearchNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.endNode
}

// FirstPlannedChild returns currentNode's highest-scoring child — the
// next planned move — and whether one exists.
func (g *Game) FirstPlannedChild() (search.SearchNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	kids := g.currentNode.Children()
	if len(kids) == 0 {
		return search.SearchNode{}, false
	}
	return kids[0], true
}

// NumPrecalculatedMoves returns endNode.depth - currentNode.depth.
func (g *Game) NumPrecalculatedMoves() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.endNode.Depth() - g.currentNode.Depth()
}

// ClearPrecalculatedNodes drops every precomputed node beyond
// currentNode, resetting endNode to currentNode.
func (g *Game) ClearPrecalculatedNodes() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentNode.ClearChildren()
	g.endNode = g.currentNode
}

// GetFutureBlocks returns the next n block types starting at endNode's
// depth — the blocks a new search rooted at endNode is allowed to see.
func (g *Game) GetFutureBlocks(n int) []board.CellType {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.upcoming.Slice(g.endNode.Depth(), n)
}

// ApplyLinePenalty shifts the committed grid per the multiplayer
// line-penalty protocol and invalidates the precomputed plan, since the
// external mutation makes every precomputed descendant stale. The
// post-penalty grid becomes a new timeline node (a child of the current
// one) rather than an in-place mutation, keeping every GameState the
// arena ever holds immutable once allocated.
func (g *Game) ApplyLinePenalty(n int) {
	if n < 2 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentNode.ClearChildren()

	tainted := board.ApplyLinePenalty(g.currentNode.State(), n, g.garbage)
	score := g.defaultEval.Evaluate(tainted)
	g.currentNode = g.currentNode.AddChild(tainted, g.defaultEval, score)
	g.endNode = g.currentNode
	g.events.postStateChanged(g)
}

// Splice attempts to append a search result onto the live timeline:
// srcRoot is the (possibly separate-tree) root a NodeCalculator started
// from, and leaf is the best descendant it found. Splice first carves
// srcRoot down to the single path leading to leaf, then — only if the
// resulting immediate child's depth is exactly endNode.depth+1 — grafts
// that single-path chain onto endNode. A depth mismatch (the live game
// advanced past the search's root while it was running) is returned as a
// Logic error without mutating the timeline, matching the "too slow,
// discard" contract.
func (g *Game) Splice(srcRoot, leaf search.SearchNode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := search.CarveBestPath(srcRoot, leaf); err != nil {
		return err
	}
	children := srcRoot.Children()
	if len(children) != 1 {
		return tetriserr.New(tetriserr.Logic, "tetrisbeth.Game.Splice", "carved path did not leave exactly one child")
	}
	firstChild := children[0]
	if firstChild.Depth() != g.endNode.Depth()+1 {
		return tetriserr.New(tetriserr.Logic, "tetrisbeth.Game.Splice", "search result too slow: depth no longer matches endNode")
	}

	grafted, err := search.Graft(g.endNode, firstChild)
	if err != nil {
		return err
	}
	g.endNode = grafted.EndNode()
	g.events.postStateChanged(g)
	return nil
}
