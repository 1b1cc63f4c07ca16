package board

import (
	"time"

	rng "github.com/leesper/go_rng"
)

// GarbageBag produces semi-random garbage rows for the multiplayer
// line-penalty protocol: each row gets 4-8 filled cells (of dedicated
// garbage block types), the rest left Empty. It uses go_rng's uniform
// generator rather than math/rand so the garbage row shape and the normal
// 7-bag shuffle draw from visibly distinct random sources, matching the
// original engine's separate "evil" garbage generator
// (_examples/original_source/Tetris/src/EvilBlockFactory.cpp).
type GarbageBag struct {
	uniform *rng.UniformGenerator
}

// NewGarbageBag returns a GarbageBag seeded from the wall clock.
func NewGarbageBag() *GarbageBag {
	return &GarbageBag{uniform: rng.NewUniformGenerator(time.Now().UnixNano())}
}

// garbageTypes are the block types drawn from when filling a garbage row.
// Empty is deliberately excluded.
var garbageTypes = []CellType{I, J, L, O, S, T, Z}

// Row returns one garbage row of the given width: 4-8 filled cells at
// random columns, each a random non-empty block type, the rest Empty.
func (b *GarbageBag) Row(cols int) []CellType {
	row := make([]CellType, cols)
	filled := int(b.uniform.Int64Range(4, 9)) // [4, 8] inclusive
	if filled > cols {
		filled = cols
	}
	chosen := make(map[int]bool, filled)
	for len(chosen) < filled {
		col := int(b.uniform.Int64Range(0, int64(cols)))
		chosen[col] = true
	}
	for col := range chosen {
		typeIdx := int(b.uniform.Int64Range(0, int64(len(garbageTypes))))
		row[col] = garbageTypes[typeIdx]
	}
	return row
}

// ApplyLinePenalty implements spec.md §6's protocol: for n >= 2, shift the
// grid up by n-1 rows (n < 4) or n rows (n == 4), and fill the freed bottom
// rows with garbage. The resulting state is tainted. n < 2 is a no-op.
func ApplyLinePenalty(s GameState, n int, garbage *GarbageBag) GameState {
	if n < 2 {
		return s
	}
	shift := n - 1
	if n == 4 {
		shift = n
	}
	g := s.Grid()
	rows, cols := g.Rows(), g.Cols()
	if shift > rows {
		shift = rows
	}

	next := NewGrid(rows, cols)
	// rows [shift, rows) of the old grid become rows [0, rows-shift) of the
	// new grid (shifted up); the bottom `shift` rows are garbage.
	for r := shift; r < rows; r++ {
		for c := 0; c < cols; c++ {
			next.Set(r-shift, c, g.Get(r, c))
		}
	}
	for r := rows - shift; r < rows; r++ {
		garbageRow := garbage.Row(cols)
		for c := 0; c < cols; c++ {
			next.Set(r, c, garbageRow[c])
		}
	}
	return s.SetGrid(next)
}
