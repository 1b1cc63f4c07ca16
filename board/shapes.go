package board

import "sync"

// RotationCount returns how many distinct rotations a tetromino type has:
// I, S, Z have 2; J, L, T have 4; O has 1.
func RotationCount(t CellType) int {
	switch t {
	case I, S, Z:
		return 2
	case J, L, T:
		return 4
	case O:
		return 1
	default:
		return 0
	}
}

// ShapeID returns the stable integer key for a (type, rotation) pair,
// defined as 4*type + rotation.
func ShapeID(t CellType, rotation int) int32 {
	return int32(4*int(t) + rotation)
}

// Shape is an immutable small Grid giving the occupied cells of one
// (type, rotation) pair, relative to the shape's own top-left corner.
type Shape struct {
	Grid
}

var (
	shapeTableOnce sync.Once
	shapeTable     map[int32]Shape
)

// shapes builds (once, lazily) the process-wide immutable shape table. This
// is the corpus's singleton-for-a-read-only-lookup pattern, expressed with
// sync.Once instead of a package-level init that would run even for
// callers who never touch block shapes.
func shapes() map[int32]Shape {
	shapeTableOnce.Do(func() {
		shapeTable = buildShapeTable()
	})
	return shapeTable
}

// ShapeAt returns the shape for (t, rotation mod RotationCount(t)).
func ShapeAt(t CellType, rotation int) Shape {
	rc := RotationCount(t)
	if rc == 0 {
		panic("board: unknown block type")
	}
	rotation = ((rotation % rc) + rc) % rc
	return shapes()[ShapeID(t, rotation)]
}

func buildShapeTable() map[int32]Shape {
	table := make(map[int32]Shape, numBlockTypes*4)

	def := func(t CellType, rotation int, rows, cols int, cells string) {
		g := NewGrid(rows, cols)
		i := 0
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if cells[i] == '#' {
					g.Set(r, c, t)
				}
				i++
			}
		}
		table[ShapeID(t, rotation)] = Shape{g}
	}

	// I: 2 rotations
	def(I, 0, 1, 4, "####")
	def(I, 1, 4, 1, "#"+"#"+"#"+"#")

	// O: 1 rotation
	def(O, 0, 2, 2, "####")

	// S: 2 rotations
	def(S, 0, 2, 3,
		".##"+
			"##.")
	def(S, 1, 3, 2,
		"#."+
			"##"+
			".#")

	// Z: 2 rotations
	def(Z, 0, 2, 3,
		"##."+
			".##")
	def(Z, 1, 3, 2,
		".#"+
			"##"+
			"#.")

	// J: 4 rotations
	def(J, 0, 2, 3,
		"#.."+
			"###")
	def(J, 1, 3, 2,
		"##"+
			"#."+
			"#.")
	def(J, 2, 2, 3,
		"###"+
			"..#")
	def(J, 3, 3, 2,
		".#"+
			".#"+
			"##")

	// L: 4 rotations
	def(L, 0, 2, 3,
		"..#"+
			"###")
	def(L, 1, 3, 2,
		"#."+
			"#."+
			"##")
	def(L, 2, 2, 3,
		"###"+
			"#..")
	def(L, 3, 3, 2,
		"##"+
			".#"+
			".#")

	// T: 4 rotations
	def(T, 0, 2, 3,
		".#."+
			"###")
	def(T, 1, 3, 2,
		"#."+
			"##"+
			"#.")
	def(T, 2, 2, 3,
		"###"+
			".#.")
	def(T, 3, 3, 2,
		".#"+
			"##"+
			".#")

	return table
}
