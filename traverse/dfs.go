package traverse

// depthFirst keeps a LIFO stack of frames.
type depthFirst struct {
	t     *Traversal
	stack []frame
}

func (d *depthFirst) next() (Visit, bool) {
	t := d.t
	for {
		if len(d.stack) == 0 {
			s, ok := t.nextStart()
			if !ok {
				return Visit{}, false
			}
			d.stack = append(d.stack, frame{node: s})
		}

		f := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		if t.visited.Contains(f.node) {
			continue
		}
		v := t.visit(f.node, f.depth)
		if t.expands(f.depth) {
			adj := t.g.Adjacent(f.node)
			// Reverse push so the first link is popped first.
			for i := len(adj) - 1; i >= 0; i-- {
				if nb := adj[i]; !t.visited.Contains(nb) {
					d.stack = append(d.stack, frame{node: nb, depth: f.depth + 1})
				}
			}
		}
		return v, true
	}
}
