package board

import (
	"math/rand"
	"sync"
)

// BlockSource produces the sequence of future block types. Game holds one
// and lazily extends an upcoming-blocks buffer from it.
type BlockSource interface {
	// Next returns the next block type in the sequence.
	Next() CellType
}

// Bag is a deterministic-bag random source: it shuffles all seven
// tetromino types, hands them out one at a time, then reshuffles once
// exhausted — the standard "7-bag" randomizer. Its state (seed + index) is
// process-wide-shaped but owned by an explicit, constructed value rather
// than a package singleton, per the design note on singletons: the Game
// owns one Bag instance and passes it around explicitly.
type Bag struct {
	mu      sync.Mutex
	rand    *rand.Rand
	current []CellType
	pos     int
}

// NewBag returns a Bag seeded from the given seed. Game construction seeds
// this from the wall clock at process start, per spec.md §6.
func NewBag(seed int64) *Bag {
	b := &Bag{rand: rand.New(rand.NewSource(seed))}
	b.reshuffle()
	return b
}

func (b *Bag) reshuffle() {
	b.current = []CellType{I, J, L, O, S, T, Z}
	b.rand.Shuffle(len(b.current), func(i, j int) {
		b.current[i], b.current[j] = b.current[j], b.current[i]
	})
	b.pos = 0
}

// Next returns the next block type, reshuffling when the current bag is
// exhausted.
func (b *Bag) Next() CellType {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pos >= len(b.current) {
		b.reshuffle()
	}
	t := b.current[b.pos]
	b.pos++
	return t
}

// UpcomingBuffer lazily extends an ordered sequence of block types pulled
// from a BlockSource. Index i has a stable value once read; reading index
// i+1 never re-randomizes index i.
type UpcomingBuffer struct {
	mu     sync.Mutex
	source BlockSource
	values []CellType
}

// NewUpcomingBuffer wraps a BlockSource in a stable, append-only buffer.
func NewUpcomingBuffer(source BlockSource) *UpcomingBuffer {
	return &UpcomingBuffer{source: source}
}

// At returns the block type at index i, extending the buffer as needed.
func (u *UpcomingBuffer) At(i int) CellType {
	u.mu.Lock()
	defer u.mu.Unlock()
	for len(u.values) <= i {
		u.values = append(u.values, u.source.Next())
	}
	return u.values[i]
}

// Slice returns the block types in [start, start+n), extending the buffer
// as needed.
func (u *UpcomingBuffer) Slice(start, n int) []CellType {
	out := make([]CellType, n)
	for i := 0; i < n; i++ {
		out[i] = u.At(start + i)
	}
	return out
}
