package board

import "gorgonia.org/vecf32"

// featureCount is the length of the feature vector evaluate builds:
// game-height, last-block-height, holes, singles, doubles, triples,
// tetrises.
const featureCount = 7

// Preset names a named weight bundle.
type Preset string

const (
	Balanced     Preset = "balanced"
	Survival     Preset = "survival"
	MakeTetrises Preset = "make_tetrises"
	Depressed    Preset = "depressed"
	Custom       Preset = "custom"
)

// Weights is an immutable bundle of integer feature weights plus a
// recommended (depth, width) search pair.
type Weights struct {
	GameHeight      int
	LastBlockHeight int
	Holes           int
	Singles         int
	Doubles         int
	Triples         int
	Tetrises        int
	RecommendDepth  int
	RecommendWidth  int
}

// presetWeights is the table-driven set of named weight bundles, grounded
// on the original engine's per-preset Evaluator subclasses
// (_examples/original_source/_INDEX.md's ComputerPlayer.cpp references one
// subclass per named strategy).
var presetWeights = map[Preset]Weights{
	Balanced: {
		GameHeight: -5, LastBlockHeight: -2, Holes: -8,
		Singles: 1, Doubles: 3, Triples: 6, Tetrises: 12,
		RecommendDepth: 4, RecommendWidth: 5,
	},
	Survival: {
		GameHeight: -10, LastBlockHeight: -4, Holes: -20,
		Singles: 1, Doubles: 2, Triples: 3, Tetrises: 4,
		RecommendDepth: 3, RecommendWidth: 6,
	},
	MakeTetrises: {
		GameHeight: -3, LastBlockHeight: -1, Holes: -6,
		Singles: -2, Doubles: -1, Triples: 2, Tetrises: 20,
		RecommendDepth: 5, RecommendWidth: 4,
	},
	Depressed: {
		GameHeight: -1, LastBlockHeight: 0, Holes: -2,
		Singles: 0, Doubles: 0, Triples: 0, Tetrises: 0,
		RecommendDepth: 1, RecommendWidth: 1,
	},
}

// makeTetrisesPenalty is subtracted from the score whenever a piece
// occupies the rightmost column (reserved for I-tetrises) within the top 4
// rows, per spec.md §4.2.
const makeTetrisesPenalty = 4

// Evaluator is an immutable weight bundle bound to a preset name. evaluate
// is a pure function of the GameState and the weight vector.
type Evaluator struct {
	preset  Preset
	weights Weights
}

// NewEvaluator returns the Evaluator for a named preset. Use NewCustomEvaluator
// for explicit weights.
func NewEvaluator(preset Preset) Evaluator {
	w, ok := presetWeights[preset]
	if !ok {
		panic("board: unknown evaluator preset " + string(preset))
	}
	return Evaluator{preset: preset, weights: w}
}

// NewCustomEvaluator returns a Custom Evaluator with explicit weights.
func NewCustomEvaluator(w Weights) Evaluator {
	return Evaluator{preset: Custom, weights: w}
}

// Preset returns the evaluator's preset name.
func (e Evaluator) Preset() Preset { return e.preset }

// Weights returns the evaluator's weight bundle.
func (e Evaluator) Weights() Weights { return e.weights }

// RecommendedDepthWidth returns the preset's recommended (depth, width).
func (e Evaluator) RecommendedDepthWidth() (int, int) {
	return e.weights.RecommendDepth, e.weights.RecommendWidth
}

// Clone returns a value copy. Evaluator is already immutable (a plain
// struct of value fields), but search constructors call Clone explicitly
// wherever a Tweaker-supplied evaluator is captured for an in-flight
// search, so that no future Tweaker mutation of the caller's evaluator can
// ever race with in-flight scoring — see spec.md §9's note on mutable
// evaluators on a live search.
func (e Evaluator) Clone() Evaluator { return e }

// weightVector returns the 7 weights in feature order, as float32, for use
// with vecf32's dot product.
func (w Weights) weightVector() []float32 {
	return []float32{
		float32(w.GameHeight),
		float32(w.LastBlockHeight),
		float32(w.Holes),
		float32(w.Singles),
		float32(w.Doubles),
		float32(w.Triples),
		float32(w.Tetrises),
	}
}

// featureVector builds state's 7-element feature vector, in the same order
// as weightVector.
func featureVector(state GameState) []float32 {
	stats := state.Stats()
	return []float32{
		float32(state.StackHeight()),
		float32(state.LandingHeight()),
		float32(state.CountHoles()),
		float32(stats.NumSingles),
		float32(stats.NumDoubles),
		float32(stats.NumTriples),
		float32(stats.NumTetrises),
	}
}

// Evaluate scores state as the dot product of its feature vector and the
// evaluator's weight vector, computed with gorgonia.org/vecf32 to keep the
// per-placement scoring loop (called once per legal landing, every ply)
// allocation-light. The MakeTetrises preset additionally penalizes any
// piece occupying the rightmost column within the top 4 rows.
func (e Evaluator) Evaluate(state GameState) int {
	features := featureVector(state)
	weights := e.weights.weightVector()

	vecf32.Mul(features, weights) // features[i] *= weights[i], in place
	score := int(vecf32.Sum(features))

	if e.preset == MakeTetrises && occupiesReservedColumn(state) {
		score -= makeTetrisesPenalty
	}
	return score
}

// occupiesReservedColumn reports whether any of the top 4 rows of the
// rightmost column is non-empty.
func occupiesReservedColumn(state GameState) bool {
	g := state.Grid()
	col := g.Cols() - 1
	limit := 4
	if limit > g.Rows() {
		limit = g.Rows()
	}
	for r := 0; r < limit; r++ {
		if g.Get(r, col) != Empty {
			return true
		}
	}
	return false
}
