package search

import "github.com/tetrisbeth/tetrisbeth/tetriserr"

// CarveBestPath converts a fan-out tree into a single path: given dst, a
// descendant of src, it walks up from dst to depth src.Depth()+1, and at
// each intermediate parent replaces the child set with exactly the chosen
// child, freeing every sibling subtree. After it returns, src has exactly
// one child, that child has exactly one child, and so on down to dst.
func CarveBestPath(src, dst SearchNode) error {
	if src.tree != dst.tree {
		return tetriserr.New(tetriserr.Validation, "search.CarveBestPath", "src and dst must belong to the same tree")
	}
	if dst.Depth() <= src.Depth() {
		return tetriserr.New(tetriserr.Logic, "search.CarveBestPath", "dst must be a strict descendant of src")
	}

	// Walk up from dst, collecting the chosen child at each level.
	chosen := make([]SearchNode, 0, dst.Depth()-src.Depth())
	cur := dst
	for cur.Depth() > src.Depth() {
		chosen = append(chosen, cur)
		parent, ok := cur.Parent()
		if !ok {
			return tetriserr.New(tetriserr.Logic, "search.CarveBestPath", "reached a root before reaching src")
		}
		cur = parent
	}
	if cur.ref != src.ref {
		return tetriserr.New(tetriserr.Logic, "search.CarveBestPath", "dst does not descend from src")
	}

	// chosen[len-1] is src's immediate child; chosen[0] is dst itself.
	for i := len(chosen) - 1; i >= 0; i-- {
		keep := chosen[i]
		parent, _ := keep.Parent()
		parent.keepOnlyChild(keep.ref)
	}
	return nil
}

// keepOnlyChild frees every child of n except keep, then makes keep the
// sole surviving entry in n's child list.
func (n SearchNode) keepOnlyChild(keep NodeRef) {
	t := n.tree
	for _, kid := range t.Children(n.ref) {
		if kid != keep {
			t.freeSubtree(kid)
		}
	}
	t.mu.Lock()
	t.children[n.ref] = t.children[n.ref][:0]
	t.children[n.ref] = append(t.children[n.ref], keep)
	t.mu.Unlock()
}

// Graft copies src's subtree (from its own, typically separate, tree) and
// attaches the copy as a new child chain hanging off dst, in dst's tree.
// It requires src.Depth() == dst.Depth()+1, matching the splice contract
// the computer player enforces before accepting a search result. It
// returns the root of the newly grafted subtree, now living in dst's
// tree.
func Graft(dst, src SearchNode) (SearchNode, error) {
	if src.Depth() != dst.Depth()+1 {
		return SearchNode{}, tetriserr.New(tetriserr.Logic, "search.Graft", "src depth must be dst depth + 1")
	}
	grafted := cloneInto(dst.tree, src, dst.ref)
	dst.tree.insertChild(dst.ref, grafted.ref)
	return grafted, nil
}
