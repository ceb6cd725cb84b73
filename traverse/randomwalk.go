package traverse

import (
	"math/rand/v2"

	"github.com/hupe1980/linkweave/graph"
)

// randomWalk moves a single cursor to a uniformly chosen unvisited neighbor.
// When the cursor has no unvisited neighbor, or sits at MaxDepth, it
// backtracks along path. An empty path restarts at the next unvisited start.
// A node's depth is its index in path.
type randomWalk struct {
	t          *Traversal
	rng        *rand.Rand
	path       []graph.Node
	candidates []graph.Node
}

func newRandomWalk(t *Traversal, seed int64) *randomWalk {
	s := uint64(seed)
	return &randomWalk{
		t:   t,
		rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
	}
}

func (w *randomWalk) next() (Visit, bool) {
	t := w.t
	for {
		if len(w.path) == 0 {
			s, ok := t.nextStart()
			if !ok {
				return Visit{}, false
			}
			w.path = append(w.path, s)
			return t.visit(s, 0), true
		}

		depth := len(w.path) - 1
		cur := w.path[depth]
		if t.expands(depth) {
			w.candidates = w.candidates[:0]
			for _, nb := range t.g.Adjacent(cur) {
				if !t.visited.Contains(nb) {
					w.candidates = append(w.candidates, nb)
				}
			}
			if len(w.candidates) > 0 {
				nb := w.candidates[w.rng.IntN(len(w.candidates))]
				w.path = append(w.path, nb)
				return t.visit(nb, depth+1), true
			}
		}
		w.path = w.path[:depth]
	}
}
