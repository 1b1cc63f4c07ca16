package search

import "github.com/tetrisbeth/tetrisbeth/board"

// SearchNode is a handle into a Tree: the tree it belongs to plus the slot
// index. Two handles are interchangeable iff they carry the same tree
// pointer and ref.
type SearchNode struct {
	tree *Tree
	ref  NodeRef
}

// Ref returns the node's arena index, for callers that need to persist a
// lightweight reference (e.g. DOT export) without holding a SearchNode.
func (n SearchNode) Ref() NodeRef { return n.ref }

// Valid reports whether n refers to a live (non-freed) node.
func (n SearchNode) Valid() bool {
	if n.tree == nil || !n.ref.valid() {
		return false
	}
	return n.tree.get(n.ref).valid
}

// Depth returns the node's depth; the root is 0.
func (n SearchNode) Depth() int { return n.tree.get(n.ref).depth }

// State returns the node's GameState.
func (n SearchNode) State() board.GameState { return n.tree.get(n.ref).state }

// Evaluator returns the Evaluator instance the node was scored with.
func (n SearchNode) Evaluator() board.Evaluator { return n.tree.get(n.ref).eval }

// Score returns the node's cached evaluation score, and whether one has
// been set (the root, scored by nothing, has none).
func (n SearchNode) Score() (int, bool) {
	e := n.tree.get(n.ref)
	return e.score, e.hasScore
}

// Parent returns n's parent, and whether it has one (false for the root).
func (n SearchNode) Parent() (SearchNode, bool) {
	e := n.tree.get(n.ref)
	if !e.parent.valid() {
		return SearchNode{}, false
	}
	return SearchNode{tree: n.tree, ref: e.parent}, true
}

// Children returns n's children in descending-score order.
func (n SearchNode) Children() []SearchNode {
	refs := n.tree.Children(n.ref)
	out := make([]SearchNode, len(refs))
	for i, r := range refs {
		out[i] = SearchNode{tree: n.tree, ref: r}
	}
	return out
}

// blockKey is the tie-break identifier used to order same-score children
// deterministically: the committed block's shape id and landing column.
func blockKey(state board.GameState) int64 {
	block, ok := state.OriginalBlock()
	if !ok {
		return 0
	}
	return int64(block.ShapeID())<<32 | int64(uint32(block.Column))
}

// AddChild allocates a new child of n holding state, scored by eval with
// the given score, and inserts it maintaining descending-score order
// (ties broken by ascending block identifier, for determinism). The new
// child's depth is always n.Depth()+1.
func (n SearchNode) AddChild(state board.GameState, eval board.Evaluator, score int) SearchNode {
	childRef := n.tree.alloc(state, eval, n.ref, n.Depth()+1, score, true)
	n.tree.insertChild(n.ref, childRef)
	return SearchNode{tree: n.tree, ref: childRef}
}

// insertChild inserts child into parent's child list keeping descending
// score order (ties broken by ascending blockKey).
func (t *Tree) insertChild(parent, child NodeRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	childEntry := t.nodes[child]
	childScore := childEntry.score
	childKey := blockKey(childEntry.state)

	siblings := t.children[parent]
	idx := len(siblings)
	for i, sib := range siblings {
		sibEntry := t.nodes[sib]
		if childScore > sibEntry.score {
			idx = i
			break
		}
		if childScore == sibEntry.score && childKey < blockKey(sibEntry.state) {
			idx = i
			break
		}
	}

	siblings = append(siblings, NilNode)
	copy(siblings[idx+1:], siblings[idx:])
	siblings[idx] = child
	t.children[parent] = siblings
}

// ClearChildren drops every child of n (and their descendants), returning
// their arena slots to the freelist.
func (n SearchNode) ClearChildren() {
	for _, kid := range n.tree.Children(n.ref) {
		n.tree.freeSubtree(kid)
	}
	n.tree.mu.Lock()
	n.tree.children[n.ref] = n.tree.children[n.ref][:0]
	n.tree.mu.Unlock()
}

// EndNode follows the highest-scoring child (children[0]) repeatedly and
// returns the tail of that chain.
func (n SearchNode) EndNode() SearchNode {
	current := n
	for {
		kids := current.tree.Children(current.ref)
		if len(kids) == 0 {
			return current
		}
		current = SearchNode{tree: current.tree, ref: kids[0]}
	}
}

// Clone deep-copies n's subtree (state, depth, score, evaluator, and every
// descendant, preserving structure and order) into a brand-new Tree, and
// returns a handle to the copied root. Used wherever a search must start
// from an independent copy of a live node, so that nothing the search
// builds is visible to readers of the original tree until explicitly
// spliced back in.
func (n SearchNode) Clone() SearchNode {
	dst := NewTree()
	return cloneInto(dst, n, NilNode)
}

func cloneInto(dst *Tree, src SearchNode, parent NodeRef) SearchNode {
	e := src.tree.get(src.ref)
	ref := dst.alloc(e.state, e.eval, parent, e.depth, e.score, e.hasScore)
	for _, kid := range src.Children() {
		copied := cloneInto(dst, kid, ref)
		dst.insertChild(ref, copied.ref)
	}
	return SearchNode{tree: dst, ref: ref}
}
