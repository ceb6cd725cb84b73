package linkweave

import (
	"context"
	"runtime"
	"time"

	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/corpus"
	"github.com/hupe1980/linkweave/graph"
	"github.com/hupe1980/linkweave/internal/resource"
	"github.com/hupe1980/linkweave/model"
	"github.com/hupe1980/linkweave/shard"
	"github.com/hupe1980/linkweave/titleindex"
)

// Corpus is a resolved document collection: documents, Title Index and
// Resolved Graph. It is immutable once built and may serve any number of
// concurrent runs.
type Corpus struct {
	docs        *corpus.MemoryStore
	index       *titleindex.Index
	graph       *graph.Graph
	titleReport titleindex.Report
	graphReport graph.Report
	controller  *resource.Controller
	opts        options
}

// Build indexes titles and resolves the link graph of docs.
//
// A duplicate document ID fails with ErrIntegrity before anything else is
// done. Title collisions and unresolvable links are data-quality events:
// they are logged, counted in the run Summary and do not fail the build.
func Build(ctx context.Context, docs []model.Document, redirects []model.Redirect, optFns ...Option) (*Corpus, error) {
	o := applyOptions(optFns)
	start := time.Now()
	c, err := build(ctx, docs, redirects, o)
	elapsed := time.Since(start)
	err = translateError(err)

	o.logger.LogBuild(ctx, c, elapsed, err)
	if err != nil {
		o.metricsCollector.RecordBuild(0, 0, elapsed, err)
		return nil, err
	}
	o.metricsCollector.RecordBuild(c.graph.Len(), c.graph.EdgeCount(), elapsed, nil)
	return c, nil
}

func build(ctx context.Context, docs []model.Document, redirects []model.Redirect, o options) (*Corpus, error) {
	if err := graph.CheckUnique(docs); err != nil {
		return nil, err
	}

	idxOpts := []titleindex.Option{titleindex.WithLogger(o.logger.Logger)}
	if o.caseInsensitive {
		idxOpts = append(idxOpts, titleindex.WithCaseInsensitive())
	}
	index, trep := titleindex.Build(docs, redirects, idxOpts...)

	c := &Corpus{
		docs:        corpus.NewMemoryStore(docs),
		index:       index,
		titleReport: trep,
		opts:        o,
	}
	if o.graph != nil {
		if err := checkGraph(o.graph, docs); err != nil {
			return nil, err
		}
		st := o.graph.Stats()
		c.graph = o.graph
		c.graphReport = graph.Report{Documents: st.Nodes, Edges: st.Edges, Leaves: st.Leaves, Isolated: st.Isolated}
	} else {
		g, grep, err := graph.Resolve(ctx, docs, index,
			graph.WithWorkers(o.workers),
			graph.WithLogger(o.logger.Logger),
		)
		if err != nil {
			return nil, err
		}
		c.graph, c.graphReport = g, grep
	}

	maxRuns := o.maxRuns
	if maxRuns <= 0 {
		maxRuns = int64(runtime.GOMAXPROCS(0))
	}
	c.controller = resource.NewController(resource.Config{
		MaxConcurrentRuns:  maxRuns,
		IOLimitBytesPerSec: o.ioLimit,
	})
	return c, nil
}

func checkGraph(g *graph.Graph, docs []model.Document) error {
	if g.Len() != len(docs) {
		return &GraphMismatchError{Documents: len(docs), Nodes: g.Len()}
	}
	for i := range docs {
		if !g.Contains(docs[i].ID) {
			return &GraphMismatchError{Documents: len(docs), Nodes: g.Len(), Missing: docs[i].ID}
		}
	}
	return nil
}

// Graph returns the Resolved Graph.
func (c *Corpus) Graph() *graph.Graph {
	return c.graph
}

// Index returns the Title Index.
func (c *Corpus) Index() *titleindex.Index {
	return c.index
}

// Documents returns the document store.
func (c *Corpus) Documents() *corpus.MemoryStore {
	return c.docs
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return c.graph.Len()
}

// TitleReport returns the Title Index construction report.
func (c *Corpus) TitleReport() titleindex.Report {
	return c.titleReport
}

// GraphReport returns the link resolution report.
func (c *Corpus) GraphReport() graph.Report {
	return c.graphReport
}

// NewWriter returns a shard writer for store that uses the corpus codec,
// compression, I/O limit, logger and metrics. opts are applied last.
func (c *Corpus) NewWriter(store blobstore.Store, opts ...shard.Option) *shard.Writer {
	mc := c.opts.metricsCollector
	base := []shard.Option{
		shard.WithCodec(c.opts.codec),
		shard.WithCompression(c.opts.compression),
		shard.WithController(c.controller),
		shard.WithLogger(c.opts.logger.Logger),
		shard.WithObserver(func(info shard.Info, elapsed time.Duration) {
			mc.RecordShard(info.Documents, info.Tokens, info.Bytes, elapsed)
		}),
	}
	return shard.NewWriter(store, append(base, opts...)...)
}
