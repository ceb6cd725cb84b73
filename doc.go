// Package linkweave builds graph-coherent training datasets from an
// extracted article corpus.
//
// Instead of shuffling documents, linkweave resolves the hyperlinks between
// articles into a graph, walks that graph and emits documents in walk
// order, so that related articles land close together. Links inside the
// emitted text are rewritten into stable [label](doc:<id>) references that
// point at documents of the same output.
//
// # Quick Start
//
//	ctx := context.Background()
//	docs, _ := corpus.LoadDocuments("articles.jsonl.zst")
//	redirects, _ := corpus.LoadRedirects("redirects.jsonl.zst")
//
//	c, _ := linkweave.Build(ctx, docs.Documents(), redirects,
//	    linkweave.WithLogger(linkweave.NewTextLogger(slog.LevelInfo)),
//	    linkweave.WithCompression(shard.Zstd),
//	)
//
//	cfg := linkweave.DefaultConfig()
//	cfg.Traversal.MaxNodes = 100_000
//	cfg.Assembly.TokenBudget = 2_000_000
//
//	w := c.NewWriter(blobstore.NewLocalStore("./out"))
//	summary, err := linkweave.Run(ctx, c, cfg, w)
//
// # Pipeline
//
//   - titleindex: normalized title and redirect lookup
//   - graph: link resolution into an immutable CSR graph
//   - traverse: breadth-first, depth-first and seeded random-walk orders
//   - assemble: link rewriting and token/document budgeted shards
//   - shard: NDJSON shard files and the run manifest in a blobstore.Store
//
// A Corpus is immutable, so any number of runs with different strategies
// can share one graph (see Corpus.RunConcurrent).
//
// # Errors
//
// Errors fall into three categories: ErrIntegrity (bad input, raised before
// output), ErrInvalidConfig (rejected before processing) and ErrIO (the run
// is not committed). Data-quality problems such as dangling links or title
// collisions are logged and counted in the Summary instead.
package linkweave
