package board

// EvilBag is an alternative BlockSource that, instead of drawing from a
// shuffled bag, always hands out whichever block type is worst for the
// given board — the one minimizing the best achievable evaluator score
// one ply ahead. It is an adversarial stress-testing supplier, ported from
// the original engine's EvilBlockFactory
// (_examples/original_source/Tetris/src/EvilBlockFactory.cpp), which
// exists to make the search prove itself against a hostile block feed
// rather than a fair random one.
type EvilBag struct {
	state     func() GameState // returns the current board to judge against
	evaluator Evaluator
	fallback  BlockSource
}

// NewEvilBag builds an EvilBag that judges candidate blocks against
// whatever state `current` returns at call time, using eval to score each
// candidate's best placement. Ties go to the lowest CellType; fallback is
// drawn from only when no block type has any legal placement.
func NewEvilBag(current func() GameState, eval Evaluator, fallback BlockSource) *EvilBag {
	return &EvilBag{state: current, evaluator: eval, fallback: fallback}
}

// Next returns the block type whose best single-ply placement scores worst
// against the current board.
func (e *EvilBag) Next() CellType {
	base := e.state()
	worstType := I
	worstScore := int(^uint(0) >> 1) // max int
	found := false

	for t := CellType(1); t <= Z; t++ {
		best, ok := bestPlacementScore(base, t, e.evaluator)
		if !ok {
			continue
		}
		found = true
		if best < worstScore {
			worstScore = best
			worstType = t
		}
	}
	if !found {
		return e.fallback.Next()
	}
	return worstType
}

// bestPlacementScore returns the highest evaluator score achievable by
// dropping one block of type t into state, trying every rotation and
// column, or false if no legal placement exists.
func bestPlacementScore(state GameState, t CellType, eval Evaluator) (int, bool) {
	best := 0
	found := false
	for _, placement := range LegalPlacements(state, t) {
		next := state.Commit(placement.Block, false)
		score := eval.Evaluate(next)
		if !found || score > best {
			best = score
			found = true
		}
	}
	return best, found
}
