package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropRowOnEmptyGridLandsAtBottom(t *testing.T) {
	s := NewGameState(20, 10)
	block := ActiveBlock{Type: O, Rotation: 0, Column: 4}
	row, ok := DropRow(s, block)
	require.True(t, ok)
	assert.Equal(t, 18, row, "O piece is 2 rows tall, so it rests with its top at rows-2")
}

func TestDropRowRestsOnStack(t *testing.T) {
	s := NewGameState(10, 4)
	g := s.Grid()
	g.Set(9, 0, T)
	s = s.SetGrid(g)

	block := ActiveBlock{Type: O, Rotation: 0, Column: 0}
	row, ok := DropRow(s, block)
	require.True(t, ok)
	assert.Equal(t, 7, row)
}

func TestSpawnColumnCentersBlock(t *testing.T) {
	s := NewGameState(20, 10)
	col := SpawnColumn(s, O)
	assert.Equal(t, 4, col)
}

func TestSpawnOverlapsDetectsGameOver(t *testing.T) {
	s := NewGameState(4, 4)
	assert.False(t, SpawnOverlaps(s, O))

	g := s.Grid()
	col := SpawnColumn(s, O)
	g.Set(0, col, T)
	s = s.SetGrid(g)
	assert.True(t, SpawnOverlaps(s, O))
}

func TestLegalPlacementsCoversEveryRotationAndColumn(t *testing.T) {
	s := NewGameState(20, 10)
	placements := LegalPlacements(s, T)
	// rotations 0 and 2 are 3 cols wide (10-3+1=8 columns each); rotations 1
	// and 3 are 2 cols wide (10-2+1=9 columns each): 8+9+8+9=34.
	assert.Len(t, placements, 34)
}
