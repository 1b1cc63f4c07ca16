package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridAllEmpty(t *testing.T) {
	g := NewGrid(20, 10)
	assert.Equal(t, 20, g.Rows())
	assert.Equal(t, 10, g.Cols())
	assert.Equal(t, 20, g.FirstOccupiedRow())
	for r := 0; r < 20; r++ {
		assert.True(t, g.RowEmpty(r))
		assert.False(t, g.RowFilled(r))
	}
}

func TestGridSetGetAndClone(t *testing.T) {
	g := NewGrid(4, 4)
	g.Set(1, 2, T)
	assert.Equal(t, T, g.Get(1, 2))

	clone := g.Clone()
	clone.Set(0, 0, I)
	assert.Equal(t, Empty, g.Get(0, 0), "mutating the clone must not affect the original")
	assert.Equal(t, I, clone.Get(0, 0))
}

func TestClearFilledRowsShiftsDown(t *testing.T) {
	g := NewGrid(4, 3)
	// Fill row 3 entirely, leave a marker in row 2 col 0.
	for c := 0; c < 3; c++ {
		g.Set(3, c, T)
	}
	g.Set(2, 0, I)

	removed := g.clearFilledRows()
	require.Equal(t, 1, removed)
	assert.True(t, g.RowEmpty(0))
	assert.True(t, g.RowEmpty(1))
	assert.True(t, g.RowEmpty(2))
	assert.Equal(t, I, g.Get(3, 0), "surviving row must shift down to the bottom")
}

func TestClearFilledRowsPreservesRelativeOrder(t *testing.T) {
	g := NewGrid(5, 2)
	g.Set(0, 0, I) // topmost surviving row: marker A
	g.Set(1, 0, J) // next surviving row: marker B
	for c := 0; c < 2; c++ {
		g.Set(2, c, T) // filled, removed
	}
	g.Set(3, 0, L) // bottom surviving row: marker C

	removed := g.clearFilledRows()
	require.Equal(t, 1, removed)
	// rows above the cleared row shift down by 1: row0 becomes empty
	// padding, I moves to row1, J to row2; rows below it (L in row3, the
	// empty row4) stay where they were.
	assert.True(t, g.RowEmpty(0))
	assert.Equal(t, I, g.Get(1, 0))
	assert.Equal(t, J, g.Get(2, 0))
	assert.Equal(t, L, g.Get(3, 0))
	assert.True(t, g.RowEmpty(4))
}

func TestClearFilledRowsNoFilledRows(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(0, 0, T)
	removed := g.clearFilledRows()
	assert.Equal(t, 0, removed)
	assert.Equal(t, T, g.Get(0, 0))
}
