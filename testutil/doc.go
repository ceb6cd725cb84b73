// Package testutil provides testing utilities for linkweave.
//
// This package is intended for use in tests and benchmarks only.
//
// # Synthetic Corpora
//
//	rng := testutil.NewRNG(seed)
//	docs := rng.Corpus(10_000, 8, 0.1) // 10k docs, ~8 links each, 10% dangling
//
// # Hand-built Documents
//
//	a := testutil.Doc(1, "A", "B", "C") // text links [B](B) and [C](C)
package testutil
