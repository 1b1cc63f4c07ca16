package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameStateRootHasNoOriginalBlock(t *testing.T) {
	s := NewGameState(20, 10)
	_, ok := s.OriginalBlock()
	assert.False(t, ok)
	assert.Equal(t, 20, s.Stats().FirstOccupiedRow)
	assert.False(t, s.GameOver())
	assert.False(t, s.Tainted())
}

func TestCommitDeterministicIPlacement(t *testing.T) {
	s := NewGameState(20, 10)
	block := ActiveBlock{Type: I, Rotation: 0, Row: 19, Column: 3}
	require.True(t, s.CheckPositionValid(block))

	next := s.Commit(block, false)
	ob, ok := next.OriginalBlock()
	require.True(t, ok)
	assert.Equal(t, block, ob)
	assert.Equal(t, 0, next.Stats().NumLines)
	assert.Equal(t, 19, next.Stats().FirstOccupiedRow)
	for c := 3; c < 7; c++ {
		assert.Equal(t, I, next.Grid().Get(19, c))
	}
}

func TestCommitSingleLineClear(t *testing.T) {
	s := NewGameState(4, 4)
	g := s.Grid()
	for c := 0; c < 3; c++ {
		g.Set(3, c, T)
	}
	s = s.SetGrid(g)

	block := ActiveBlock{Type: I, Rotation: 1, Row: 0, Column: 3}
	require.True(t, s.CheckPositionValid(block))

	next := s.Commit(block, false)
	assert.Equal(t, 1, next.Stats().NumLines)
	assert.Equal(t, 1, next.Stats().NumSingles)
	assert.True(t, next.Grid().RowEmpty(0), "cleared row is replaced by an empty row at the top")
	assert.Equal(t, I, next.Grid().Get(3, 3), "surviving rows shift down")
}

func TestCommitTetrisClear(t *testing.T) {
	s := NewGameState(6, 4)
	g := s.Grid()
	for r := 2; r < 6; r++ {
		for c := 0; c < 3; c++ {
			g.Set(r, c, T)
		}
	}
	s = s.SetGrid(g)

	// A vertical I-piece (rotation 1) fills column 3 for rows 2..5,
	// completing all four rows at once.
	block := ActiveBlock{Type: I, Rotation: 1, Row: 2, Column: 3}
	require.True(t, s.CheckPositionValid(block))

	next := s.Commit(block, false)
	assert.Equal(t, 4, next.Stats().NumLines)
	assert.Equal(t, 1, next.Stats().NumTetrises)
	assert.Equal(t, 6, next.Grid().FirstOccupiedRow(), "board must be empty after a tetris clear")
}

func TestSetGridTaintsState(t *testing.T) {
	s := NewGameState(5, 5)
	assert.False(t, s.Tainted())
	tainted := s.SetGrid(s.Grid().Clone())
	assert.True(t, tainted.Tainted())
}

func TestCountHoles(t *testing.T) {
	s := NewGameState(4, 3)
	g := s.Grid()
	g.Set(0, 0, T)
	// row 1 col 0 left empty under a filled cell: a hole.
	g.Set(2, 0, T)
	s = s.SetGrid(g)
	assert.Equal(t, 2, s.CountHoles(), "rows 1 and 3's col-0 cells each sit directly under a filled cell")
}

func TestStackHeightAndLandingHeight(t *testing.T) {
	s := NewGameState(20, 10)
	block := ActiveBlock{Type: O, Rotation: 0, Row: 18, Column: 0}
	next := s.Commit(block, false)
	assert.Equal(t, 20-18, next.StackHeight())
	assert.Equal(t, 20-18, next.LandingHeight())
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewGameState(4, 4)
	clone := s.Clone()
	g := clone.Grid()
	g.Set(0, 0, I)
	clone = clone.SetGrid(g)
	assert.Equal(t, Empty, s.Grid().Get(0, 0))
	assert.Equal(t, I, clone.Grid().Get(0, 0))
}
