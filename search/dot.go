package search

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// ToDOT renders n's subtree as a Graphviz DOT document: one node per
// SearchNode labelled with its depth and score, one edge per parent/child
// link. Intended for dumping a search tree to disk for offline inspection,
// never parsed back in.
func (n SearchNode) ToDOT() (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName("search"); err != nil {
		return "", err
	}
	if err := graph.SetDir(true); err != nil {
		return "", err
	}

	var walk func(node SearchNode)
	walk = func(node SearchNode) {
		name := dotNodeName(node.ref)
		graph.AddNode("search", name, map[string]string{
			"label": strconv.Quote(dotLabel(node)),
		})
		for _, kid := range node.Children() {
			walk(kid)
			graph.AddEdge(name, dotNodeName(kid.ref), true, nil)
		}
	}
	walk(n)

	return graph.String(), nil
}

func dotNodeName(ref NodeRef) string {
	return fmt.Sprintf("n%d", ref)
}

func dotLabel(n SearchNode) string {
	score, hasScore := n.Score()
	if !hasScore {
		return fmt.Sprintf("depth=%d root", n.Depth())
	}
	return fmt.Sprintf("depth=%d score=%d", n.Depth(), score)
}
