package board

// dropRow returns the lowest row at which block (with its Column and
// Rotation already set) rests legally against state, gravity-dropping it
// from the top. It returns false if no row yields a legal position (the
// column is blocked all the way to the spawn row).
func dropRow(state GameState, block ActiveBlock, rows int) (int, bool) {
	resting := -1
	for row := 0; row < rows; row++ {
		block.Row = row
		if state.CheckPositionValid(block) {
			resting = row
		} else if resting >= 0 {
			break
		}
	}
	return resting, resting >= 0
}

// DropRow is the exported form of dropRow, used by the search engine's
// fan-out generation to find the resting row for a candidate placement.
func DropRow(state GameState, block ActiveBlock) (int, bool) {
	return dropRow(state, block, state.Grid().Rows())
}

// SpawnColumn is the column a new block spawns at: centered, per the
// original engine's spawn convention.
func SpawnColumn(state GameState, t CellType) int {
	shape := ShapeAt(t, 0)
	return (state.Grid().Cols() - shape.Cols()) / 2
}

// Placement is one legal (rotation, resting row, column) landing for a
// block type against a given state.
type Placement struct {
	Block ActiveBlock
}

// LegalPlacements enumerates every (rotation, column) landing for block
// type t against state: for each rotation and each column, the block is
// gravity-dropped to its lowest resting row. Columns/rotations with no
// legal resting row are omitted.
func LegalPlacements(state GameState, t CellType) []Placement {
	cols := state.Grid().Cols()
	out := make([]Placement, 0, cols*RotationCount(t))
	for rotation := 0; rotation < RotationCount(t); rotation++ {
		for col := 0; col < cols; col++ {
			block := ActiveBlock{Type: t, Rotation: rotation, Column: col}
			row, ok := DropRow(state, block)
			if !ok {
				continue
			}
			block.Row = row
			out = append(out, Placement{Block: block})
		}
	}
	return out
}

// SpawnOverlaps reports whether block t at rotation 0, spawned at its
// default column and row 0, already overlaps a filled cell — the
// "game over" condition checked before fanning out a piece's placements.
func SpawnOverlaps(state GameState, t CellType) bool {
	block := ActiveBlock{Type: t, Rotation: 0, Row: 0, Column: SpawnColumn(state, t)}
	return !state.CheckPositionValid(block)
}
