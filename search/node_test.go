package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrisbeth/tetrisbeth/board"
)

func newTestRoot() SearchNode {
	tree := NewTree()
	state := board.NewGameState(20, 10)
	eval := board.NewEvaluator(board.Balanced)
	return tree.NewRoot(state, eval)
}

func TestAddChildOrdersDescendingByScore(t *testing.T) {
	root := newTestRoot()
	state := root.State()
	eval := root.Evaluator()

	root.AddChild(state, eval, 3)
	root.AddChild(state, eval, 9)
	root.AddChild(state, eval, 5)

	kids := root.Children()
	require.Len(t, kids, 3)
	scores := make([]int, 3)
	for i, k := range kids {
		s, ok := k.Score()
		require.True(t, ok)
		scores[i] = s
	}
	assert.Equal(t, []int{9, 5, 3}, scores)
}

func TestAddChildDepthIsParentPlusOne(t *testing.T) {
	root := newTestRoot()
	child := root.AddChild(root.State(), root.Evaluator(), 1)
	assert.Equal(t, root.Depth()+1, child.Depth())

	grandchild := child.AddChild(child.State(), child.Evaluator(), 2)
	assert.Equal(t, child.Depth()+1, grandchild.Depth())
}

func TestClearChildrenFreesDescendants(t *testing.T) {
	root := newTestRoot()
	child := root.AddChild(root.State(), root.Evaluator(), 1)
	child.AddChild(child.State(), child.Evaluator(), 2)

	root.ClearChildren()
	assert.Empty(t, root.Children())
	assert.Equal(t, 1, root.tree.Len())
}

func TestEndNodeFollowsBestChildChain(t *testing.T) {
	root := newTestRoot()
	best := root.AddChild(root.State(), root.Evaluator(), 10)
	root.AddChild(root.State(), root.Evaluator(), 1)

	bestLeaf := best.AddChild(best.State(), best.Evaluator(), 99)

	assert.Equal(t, bestLeaf.ref, root.EndNode().ref)
}

func TestCloneProducesIndependentTreeWithSameShape(t *testing.T) {
	root := newTestRoot()
	a := root.AddChild(root.State(), root.Evaluator(), 10)
	a.AddChild(a.State(), a.Evaluator(), 4)
	root.AddChild(root.State(), root.Evaluator(), 2)

	clone := root.Clone()
	assert.NotSame(t, root.tree, clone.tree)
	assert.Equal(t, 0, clone.Depth())
	assert.Len(t, clone.Children(), 2)

	cloneScores := make([]int, 0, 2)
	for _, k := range clone.Children() {
		s, _ := k.Score()
		cloneScores = append(cloneScores, s)
	}
	assert.Equal(t, []int{10, 2}, cloneScores)

	cloneA := clone.Children()[0]
	assert.Len(t, cloneA.Children(), 1)

	root.ClearChildren()
	assert.Len(t, clone.Children(), 2, "clone must survive mutation of the source tree")
}

func TestValidReportsFalseAfterFree(t *testing.T) {
	root := newTestRoot()
	child := root.AddChild(root.State(), root.Evaluator(), 1)
	assert.True(t, child.Valid())

	root.ClearChildren()
	assert.False(t, child.Valid())
}
