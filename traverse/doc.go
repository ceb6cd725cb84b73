// Package traverse walks a Resolved Graph and produces the document order of
// a dataset.
//
// Three strategies are available:
//
//   - BreadthFirst: FIFO frontier of (node, depth); neighbors enqueued in
//     link order.
//   - DepthFirst: LIFO frontier; neighbors pushed in reverse link order so
//     they are visited in link order.
//   - RandomWalk: a single cursor that moves to a uniformly chosen unvisited
//     neighbor and backtracks along an explicit path stack when stuck.
//
// Every strategy visits a node at most once per run. The visited set spans
// all start nodes, so a cyclic link graph is turned into an effective DAG
// and no document is emitted twice.
//
// A Traversal is lazy and single-use: it computes the next node only when
// Next is called and discards its visitation state when exhausted. Creating
// a new Traversal with the same graph and Config reproduces the sequence
// exactly, including random walks (the random source is seeded from
// Config.Seed). Since the graph is never mutated, any number of traversals
// may run concurrently against it.
package traverse
