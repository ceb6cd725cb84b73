// Package graph holds the Resolved Graph: a compact, immutable adjacency
// structure over the documents of one corpus.
//
// # Layout
//
// Documents are addressed internally by a dense Node handle (their rank in
// ascending ID order). Adjacency is stored in compressed sparse row form:
//
//	offsets: [0, 2, 2, 5, ...]   len = nodes + 1
//	targets: [n1 n4 | | n0 n2 n7 | ...]
//
// which keeps 10^7 edges in roughly 40 MB instead of one slice per node.
//
// # Invariants
//
//   - every target is a node of the same graph (no dangling edges)
//   - no self-loops
//   - no duplicate edges; neighbor order is first-seen link order
//   - leaf and isolated documents are present as nodes
//
// A Graph is never mutated after Resolve or ReadSnapshot returns, so any
// number of goroutines may traverse it concurrently without locking.
package graph
