package search

import (
	"sync"

	"github.com/tetrisbeth/tetrisbeth/board"
)

// entry is one arena slot: a GameState plus the bookkeeping a SearchNode
// needs (parent back-reference, depth, cached score, the Evaluator the
// state was scored with, and a validity flag so a stale NodeRef a caller
// is still holding can be detected instead of silently reading garbage).
type entry struct {
	state     board.GameState
	eval      board.Evaluator
	parent    NodeRef
	depth     int
	score     int
	hasScore  bool
	valid     bool
}

// Tree is an arena of SearchNode data. Nodes own their children; a child's
// back-reference to its parent is a plain NodeRef rather than a pointer, so
// freeing a subtree never leaves a dangling owning reference the way a
// pointer-based doubly-linked tree would.
type Tree struct {
	mu       sync.Mutex
	nodes    []entry
	children [][]NodeRef
	freelist []NodeRef
}

// NewTree returns an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// NewRoot allocates a depth-0 node with no parent and returns a handle to
// it.
func (t *Tree) NewRoot(state board.GameState, eval board.Evaluator) SearchNode {
	ref := t.alloc(state, eval, NilNode, 0, 0, false)
	return SearchNode{tree: t, ref: ref}
}

// alloc takes a slot from the freelist if one exists, otherwise grows the
// arena.
func (t *Tree) alloc(state board.GameState, eval board.Evaluator, parent NodeRef, depth, score int, hasScore bool) NodeRef {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := entry{
		state:    state,
		eval:     eval,
		parent:   parent,
		depth:    depth,
		score:    score,
		hasScore: hasScore,
		valid:    true,
	}

	if l := len(t.freelist); l > 0 {
		ref := t.freelist[l-1]
		t.freelist = t.freelist[:l-1]
		t.nodes[ref] = e
		t.children[ref] = t.children[ref][:0]
		return ref
	}

	t.nodes = append(t.nodes, e)
	t.children = append(t.children, nil)
	return NodeRef(len(t.nodes) - 1)
}

// free returns ref's slot to the freelist. It does not touch ref's
// children; callers must free a subtree bottom-up (see freeSubtree).
func (t *Tree) free(ref NodeRef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[ref].valid = false
	t.children[ref] = t.children[ref][:0]
	t.freelist = append(t.freelist, ref)
}

// freeSubtree recursively frees ref and every descendant.
func (t *Tree) freeSubtree(ref NodeRef) {
	for _, kid := range t.Children(ref) {
		t.freeSubtree(kid)
	}
	t.free(ref)
}

// Children returns a copy of ref's child list, ordered by descending
// score (ties broken by insertion, which insertChild resolves by block
// identifier).
func (t *Tree) Children(ref NodeRef) []NodeRef {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]NodeRef, len(t.children[ref]))
	copy(out, t.children[ref])
	return out
}

func (t *Tree) get(ref NodeRef) entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[ref]
}

// Len returns the number of live (allocated, not-yet-freed) nodes.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes) - len(t.freelist)
}
