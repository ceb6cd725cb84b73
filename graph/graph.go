package graph

import (
	"slices"

	"github.com/hupe1980/linkweave/model"
)

// Node is a dense, graph-local document handle.
// It is only meaningful for the Graph that produced it.
type Node = uint32

// Graph is the Resolved Graph.
type Graph struct {
	ids      []model.ID // node -> id, strictly ascending
	index    map[model.ID]Node
	offsets  []uint64 // len(ids)+1
	targets  []Node
	inDegree []uint32
}

// newGraph assembles a Graph from ascending ids and per-node adjacency.
func newGraph(ids []model.ID, adj [][]Node) *Graph {
	g := &Graph{
		ids:      ids,
		index:    make(map[model.ID]Node, len(ids)),
		offsets:  make([]uint64, len(ids)+1),
		inDegree: make([]uint32, len(ids)),
	}
	for i, id := range ids {
		g.index[id] = Node(i)
	}

	var total uint64
	for i, nbrs := range adj {
		total += uint64(len(nbrs))
		g.offsets[i+1] = total
	}
	g.targets = make([]Node, 0, total)
	for _, nbrs := range adj {
		g.targets = append(g.targets, nbrs...)
	}
	for _, t := range g.targets {
		g.inDegree[t]++
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// EdgeCount returns the number of resolved edges.
func (g *Graph) EdgeCount() int {
	return len(g.targets)
}

// Lookup returns the node handle of a document.
func (g *Graph) Lookup(id model.ID) (Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Contains reports whether the document is part of the graph.
func (g *Graph) Contains(id model.ID) bool {
	_, ok := g.index[id]
	return ok
}

// ID returns the document ID of a node.
func (g *Graph) ID(n Node) model.ID {
	return g.ids[n]
}

// Adjacent returns the outgoing neighbors of n in link order.
// The returned slice aliases internal storage and must not be modified.
func (g *Graph) Adjacent(n Node) []Node {
	lo, hi := g.offsets[n], g.offsets[n+1]
	return g.targets[lo:hi:hi]
}

// Neighbors returns the outgoing neighbor IDs of a document in link order,
// or nil if the document is not in the graph.
func (g *Graph) Neighbors(id model.ID) []model.ID {
	n, ok := g.index[id]
	if !ok {
		return nil
	}
	adj := g.Adjacent(n)
	out := make([]model.ID, len(adj))
	for i, t := range adj {
		out[i] = g.ids[t]
	}
	return out
}

// HasEdge reports whether the resolved edge from -> to exists.
func (g *Graph) HasEdge(from, to model.ID) bool {
	f, ok := g.index[from]
	if !ok {
		return false
	}
	t, ok := g.index[to]
	if !ok {
		return false
	}
	return slices.Contains(g.Adjacent(f), t)
}

// InDegree returns the number of resolved edges pointing at a document.
func (g *Graph) InDegree(id model.ID) int {
	n, ok := g.index[id]
	if !ok {
		return 0
	}
	return int(g.inDegree[n])
}

// NodeInDegree returns the in-degree of a node.
func (g *Graph) NodeInDegree(n Node) int {
	return int(g.inDegree[n])
}

// IDs returns all document IDs in ascending order.
func (g *Graph) IDs() []model.ID {
	return slices.Clone(g.ids)
}
