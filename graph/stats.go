package graph

import (
	"sort"

	"github.com/hupe1980/linkweave/model"
)

// Stats describes the shape of a graph.
type Stats struct {
	Nodes         int
	Edges         int
	Leaves        int
	Isolated      int
	MaxInDegree   int
	MaxOutDegree  int
	MeanOutDegree float64
}

// Stats computes summary statistics in O(nodes).
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: g.Len(), Edges: g.EdgeCount()}
	for n := range g.Len() {
		out := int(g.offsets[n+1] - g.offsets[n])
		in := int(g.inDegree[n])
		if out == 0 {
			s.Leaves++
			if in == 0 {
				s.Isolated++
			}
		}
		s.MaxOutDegree = max(s.MaxOutDegree, out)
		s.MaxInDegree = max(s.MaxInDegree, in)
	}
	if s.Nodes > 0 {
		s.MeanOutDegree = float64(s.Edges) / float64(s.Nodes)
	}
	return s
}

// TopByInDegree returns up to k document IDs ordered by descending
// in-degree, ties broken by ascending ID. k <= 0 returns every document.
func (g *Graph) TopByInDegree(k int) []model.ID {
	nodes := make([]Node, g.Len())
	for i := range nodes {
		nodes[i] = Node(i)
	}
	// Nodes are already in ascending ID order, so a stable sort on in-degree
	// alone keeps the ID tie-break.
	sort.SliceStable(nodes, func(a, b int) bool {
		return g.inDegree[nodes[a]] > g.inDegree[nodes[b]]
	})
	if k > 0 && k < len(nodes) {
		nodes = nodes[:k]
	}
	out := make([]model.ID, len(nodes))
	for i, n := range nodes {
		out[i] = g.ids[n]
	}
	return out
}
