package tetrisbeth

import "github.com/tetrisbeth/tetrisbeth/board"

// Config bundles the tunables a Game and its ComputerPlayer are started
// with, grounded on the teacher's package-level Config-struct-plus-
// Default-constructor-plus-IsValid idiom.
type Config struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	StartingLevel int `json:"starting_level"`

	SearchDepth     int          `json:"search_depth"`
	SearchWidth     int          `json:"search_width"`
	WorkerCount     int          `json:"worker_count"`
	EvaluatorPreset board.Preset `json:"evaluator_preset"`

	// MoveSpeed is the BlockMover's effective move rate, in moves per
	// second.
	MoveSpeed int `json:"move_speed"`

	// ComputerPlayerTickMillis and GravityBaseMillis control the two
	// periodic timers' base period; both are independent, per the design
	// note against sharing a single timer thread across periodic tasks.
	ComputerPlayerTickMillis int `json:"computer_player_tick_millis"`
	GravityBaseMillis        int `json:"gravity_base_millis"`
}

// DefaultConfig returns a reasonable starting configuration: a standard
// 20x10 board, the Balanced evaluator preset, and search parameters
// matching that preset's recommendation.
func DefaultConfig() Config {
	eval := board.NewEvaluator(board.Balanced)
	depth, width := eval.RecommendedDepthWidth()
	return Config{
		Rows:                     20,
		Cols:                     10,
		StartingLevel:            1,
		SearchDepth:              depth,
		SearchWidth:              width,
		WorkerCount:              4,
		EvaluatorPreset:          board.Balanced,
		MoveSpeed:                20,
		ComputerPlayerTickMillis: 10,
		GravityBaseMillis:        1000,
	}
}

// IsValid reports whether every field is within the ranges the rest of
// the package requires.
func (c Config) IsValid() bool {
	return c.Rows > 0 &&
		c.Cols > 0 &&
		c.StartingLevel >= 0 &&
		c.SearchDepth >= 1 && c.SearchDepth <= 100 &&
		c.SearchWidth >= 1 && c.SearchWidth <= 100 &&
		c.WorkerCount >= 1 && c.WorkerCount <= 128 &&
		c.MoveSpeed >= 1 && c.MoveSpeed <= 1000 &&
		c.ComputerPlayerTickMillis > 0 &&
		c.GravityBaseMillis > 0
}
