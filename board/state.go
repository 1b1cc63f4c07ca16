package board

// Stats holds the derived per-state statistics accumulated over the whole
// game so far (not just the last commit).
type Stats struct {
	NumSingles       int
	NumDoubles       int
	NumTriples       int
	NumTetrises      int
	NumLines         int
	FirstOccupiedRow int
	CurrentHeight    int
}

// GameState is grid + originating block + derived stats. It is the unit the
// search tree is built from.
type GameState struct {
	grid          Grid
	originalBlock ActiveBlock
	hasOriginal   bool
	stats         Stats
	gameOver      bool
	tainted       bool
}

// NewGameState returns the root state for an empty grid of the given
// dimensions: no originating block, zero stats, not game-over.
func NewGameState(rows, cols int) GameState {
	g := NewGrid(rows, cols)
	return GameState{
		grid:  g,
		stats: Stats{FirstOccupiedRow: rows},
	}
}

// Grid returns the current grid. Callers must not mutate the returned
// value's backing slice directly; use SetGrid to install a new one.
func (s GameState) Grid() Grid { return s.grid }

// OriginalBlock returns the block whose commit produced this state, and
// whether one exists (it does not for the root state).
func (s GameState) OriginalBlock() (ActiveBlock, bool) { return s.originalBlock, s.hasOriginal }

// Stats returns the cumulative statistics.
func (s GameState) Stats() Stats { return s.stats }

// GameOver reports whether this state is a terminal state.
func (s GameState) GameOver() bool { return s.gameOver }

// Tainted reports whether an external mutation (e.g. a line penalty)
// invalidated any descendants precomputed from this state.
func (s GameState) Tainted() bool { return s.tainted }

// Clone returns a value-semantics deep copy — the grid's backing slice is
// copied so the clone can be mutated independently of its source. Used by
// the search engine so a fan-out never aliases the live game's grid.
func (s GameState) Clone() GameState {
	s.grid = s.grid.Clone()
	return s
}

// CheckPositionValid reports whether every filled cell of block's shape
// lies within the grid and overlaps only Empty cells.
func (s GameState) CheckPositionValid(block ActiveBlock) bool {
	for _, rc := range block.cells() {
		row, col := rc[0], rc[1]
		if !s.grid.InBounds(row, col) {
			return false
		}
		if s.grid.Get(row, col) != Empty {
			return false
		}
	}
	return true
}

// Commit stamps block's shape into the grid at its position, clears any
// fully filled rows, and returns the resulting state. Commit is total: it
// never fails, even when gameOver is true (the caller is responsible for
// only committing valid placements; an invalid one will silently overwrite
// cells, which callers in this module never do — GenerateOffspring only
// ever commits positions that CheckPositionValid accepted).
func (s GameState) Commit(block ActiveBlock, gameOver bool) GameState {
	next := s.Clone()
	for _, rc := range block.cells() {
		next.grid.Set(rc[0], rc[1], block.Type)
	}

	cleared := next.grid.clearFilledRows()
	next.stats.NumLines += cleared
	switch cleared {
	case 1:
		next.stats.NumSingles++
	case 2:
		next.stats.NumDoubles++
	case 3:
		next.stats.NumTriples++
	case 4:
		next.stats.NumTetrises++
	}

	next.originalBlock = block
	next.hasOriginal = true
	next.gameOver = gameOver
	next.tainted = false
	next.stats.FirstOccupiedRow = next.grid.FirstOccupiedRow()
	next.stats.CurrentHeight = next.grid.Rows() - next.stats.FirstOccupiedRow
	return next
}

// SetGrid overwrites the grid wholesale (used by the line-penalty path) and
// marks the state tainted, invalidating any precomputed descendants.
func (s GameState) SetGrid(g Grid) GameState {
	s.grid = g
	s.tainted = true
	s.stats.FirstOccupiedRow = g.FirstOccupiedRow()
	s.stats.CurrentHeight = g.Rows() - s.stats.FirstOccupiedRow
	return s
}

// CountHoles returns the number of holes: for each column, after passing
// the first occupied cell from the top, every empty cell below it whose
// directly-upper neighbor is filled counts as a hole. An empty cell whose
// upper neighbor is itself empty is not counted.
func (s GameState) CountHoles() int {
	g := s.grid
	holes := 0
	for c := 0; c < g.Cols(); c++ {
		seenFilled := false
		for r := 0; r < g.Rows(); r++ {
			cell := g.Get(r, c)
			if cell != Empty {
				seenFilled = true
				continue
			}
			if seenFilled && r > 0 && g.Get(r-1, c) != Empty {
				holes++
			}
		}
	}
	return holes
}

// StackHeight returns rows - firstOccupiedRow: the height of the occupied
// stack.
func (s GameState) StackHeight() int {
	return s.grid.Rows() - s.stats.FirstOccupiedRow
}

// LandingHeight returns rows - originalBlock.Row: the landing height of the
// most recently committed piece. Zero if there is no originating block.
func (s GameState) LandingHeight() int {
	if !s.hasOriginal {
		return 0
	}
	return s.grid.Rows() - s.originalBlock.Row
}
