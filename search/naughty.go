// Package search implements the iterative-deepening, fan-out-bounded tree
// search: an arena-backed tree of board states, the node-calculator that
// populates it ply by ply, and the tooling to dump or carve it.
package search

// NodeRef is an arena index into a Tree's node storage. It stands in for a
// pointer so that a node's back-reference to its parent never forms a
// reference cycle the garbage collector has to reason about.
type NodeRef int32

// NilNode is the zero value for "no node".
const NilNode NodeRef = -1

func (n NodeRef) valid() bool { return n >= 0 }
