package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/linkweave"
	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/graph"
	"github.com/hupe1980/linkweave/model"
	"github.com/hupe1980/linkweave/shard"
	"github.com/hupe1980/linkweave/testutil"
	"github.com/hupe1980/linkweave/titleindex"
	"github.com/hupe1980/linkweave/traverse"
)

var sizes = []int{10_000, 100_000}

func corpusOf(n int) []model.Document {
	return testutil.NewRNG(1).Corpus(n, 8, 0.05)
}

func BenchmarkTitleIndex(b *testing.B) {
	for _, n := range sizes {
		docs := corpusOf(n)
		b.Run(fmt.Sprintf("docs=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				titleindex.Build(docs, nil)
			}
		})
	}
}

func BenchmarkResolve(b *testing.B) {
	ctx := context.Background()
	for _, n := range sizes {
		docs := corpusOf(n)
		idx, _ := titleindex.Build(docs, nil)
		for _, workers := range []int{1, 4} {
			b.Run(fmt.Sprintf("docs=%d/workers=%d", n, workers), func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					if _, _, err := graph.Resolve(ctx, docs, idx, graph.WithWorkers(workers)); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkTraverse(b *testing.B) {
	docs := corpusOf(100_000)
	c, err := linkweave.Build(context.Background(), docs, nil)
	if err != nil {
		b.Fatal(err)
	}
	for _, st := range []traverse.Strategy{traverse.BreadthFirst, traverse.DepthFirst, traverse.RandomWalk} {
		b.Run(string(st), func(b *testing.B) {
			cfg := traverse.DefaultConfig()
			cfg.Strategy = st
			cfg.Seed = 1
			b.ReportAllocs()
			for b.Loop() {
				t, err := traverse.New(c.Graph(), cfg)
				if err != nil {
					b.Fatal(err)
				}
				n := 0
				for range t.IDs() {
					n++
				}
				if n != len(docs) {
					b.Fatalf("visited %d of %d", n, len(docs))
				}
			}
		})
	}
}

func BenchmarkAssemble(b *testing.B) {
	ctx := context.Background()
	c, err := linkweave.Build(ctx, corpusOf(20_000), nil)
	if err != nil {
		b.Fatal(err)
	}
	discard := assemble.SinkFunc(func(context.Context, *assemble.Shard) error { return nil })
	for _, policy := range []assemble.ReferencePolicy{assemble.Backward, assemble.OutputSet} {
		b.Run(string(policy), func(b *testing.B) {
			cfg := linkweave.DefaultConfig()
			cfg.Assembly.Policy = policy
			cfg.Assembly.TokenBudget = 50_000
			cfg.Assembly.DocBudget = linkweave.Unbounded
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Assemble(ctx, cfg, discard); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkShardWrite(b *testing.B) {
	ctx := context.Background()
	s := &assemble.Shard{Documents: corpusOf(2_000)}
	for _, comp := range []shard.Compression{shard.None, shard.Zstd, shard.LZ4} {
		b.Run(string(comp), func(b *testing.B) {
			w := shard.NewWriter(blobstore.NewMemoryStore(), shard.WithCompression(comp))
			raw, data, err := w.Encode(s)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(raw))
			b.ReportMetric(float64(len(data))/float64(raw), "ratio")
			b.ReportAllocs()
			i := 0
			for b.Loop() {
				s.Index = i
				if err := w.WriteShard(ctx, s); err != nil {
					b.Fatal(err)
				}
				i++
			}
		})
	}
}
