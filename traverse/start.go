package traverse

import (
	"sort"

	"github.com/hupe1980/linkweave/graph"
)

// sortByInDegree orders nodes by descending in-degree. Node order equals
// ascending ID order, which breaks ties.
func sortByInDegree(g *graph.Graph, nodes []graph.Node) {
	sort.SliceStable(nodes, func(a, b int) bool {
		da, db := g.NodeInDegree(nodes[a]), g.NodeInDegree(nodes[b])
		if da != db {
			return da > db
		}
		return nodes[a] < nodes[b]
	})
}
