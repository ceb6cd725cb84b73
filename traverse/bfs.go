package traverse

import "github.com/hupe1980/linkweave/graph"

type frame struct {
	node  graph.Node
	depth int
}

// breadthFirst keeps a FIFO queue of frames. A node may be queued more than
// once before it is popped; the visited check on pop discards the copies.
type breadthFirst struct {
	t     *Traversal
	queue []frame
	head  int
}

func (b *breadthFirst) next() (Visit, bool) {
	t := b.t
	for {
		if b.head == len(b.queue) {
			b.queue, b.head = b.queue[:0], 0
			s, ok := t.nextStart()
			if !ok {
				return Visit{}, false
			}
			b.queue = append(b.queue, frame{node: s})
		}

		f := b.queue[b.head]
		b.head++
		if t.visited.Contains(f.node) {
			continue
		}
		v := t.visit(f.node, f.depth)
		if t.expands(f.depth) {
			for _, nb := range t.g.Adjacent(f.node) {
				if !t.visited.Contains(nb) {
					b.queue = append(b.queue, frame{node: nb, depth: f.depth + 1})
				}
			}
		}
		b.compact()
		return v, true
	}
}

// compact drops consumed frames once they dominate the queue.
func (b *breadthFirst) compact() {
	if b.head < 1024 || b.head < len(b.queue)/2 {
		return
	}
	n := copy(b.queue, b.queue[b.head:])
	b.queue, b.head = b.queue[:n], 0
}
