package linkweave

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/shard"
	"github.com/hupe1980/linkweave/traverse"
)

// Traverse starts a traversal of the corpus graph. The returned Traversal
// is lazy and single-use.
func (c *Corpus) Traverse(cfg Config) (*traverse.Traversal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := traverse.New(c.graph, cfg.Traversal, traverse.WithLogger(c.opts.logger.Logger))
	return t, translateError(err)
}

// Assemble traverses the corpus and hands the resulting shards to sink.
//
// The run waits for a free run slot (see WithMaxConcurrentRuns). On a sink
// failure it stops at once and returns an error matching ErrIO; shards
// already handed to sink stay with it.
func (c *Corpus) Assemble(ctx context.Context, cfg Config, sink assemble.Sink) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := c.controller.AcquireRun(ctx); err != nil {
		return nil, err
	}
	defer c.controller.ReleaseRun()

	start := time.Now()
	s, err := c.assemble(ctx, cfg, sink)
	if s != nil {
		s.Elapsed = time.Since(start)
	}
	err = translateError(err)

	visited := 0
	if s != nil {
		visited = s.Visited
	}
	c.opts.metricsCollector.RecordTraversal(string(cfg.Traversal.Strategy), visited, time.Since(start), err)
	c.opts.logger.LogRun(ctx, s, err)
	if err != nil {
		return nil, err
	}
	c.opts.metricsCollector.RecordLinks(s.RewrittenLinks, s.PlainLinks)
	return s, nil
}

func (c *Corpus) assemble(ctx context.Context, cfg Config, sink assemble.Sink) (*Summary, error) {
	tokens := c.opts.tokens
	if tokens == nil {
		var err error
		if tokens, err = cfg.tokenLength(); err != nil {
			return nil, err
		}
	}

	t, err := traverse.New(c.graph, cfg.Traversal, traverse.WithLogger(c.opts.logger.Logger))
	if err != nil {
		return nil, err
	}
	a, err := assemble.New(c.graph, c.index, c.docs, cfg.assembly(),
		assemble.WithTokenLength(tokens),
		assemble.WithLogger(c.opts.logger.Logger),
		assemble.WithProgressInterval(c.opts.progress),
	)
	if err != nil {
		return nil, err
	}

	arep, err := a.Assemble(ctx, t.IDs(), sink)
	if err != nil {
		return nil, err
	}
	return c.summary(cfg, t.Report(), arep), nil
}

func (c *Corpus) summary(cfg Config, trep traverse.Report, arep assemble.Report) *Summary {
	return &Summary{
		Documents:         c.graph.Len(),
		Edges:             c.graph.EdgeCount(),
		Titles:            c.titleReport.Titles,
		Aliases:           c.titleReport.Aliases,
		TitleCollisions:   c.titleReport.Collisions,
		DanglingRedirects: c.titleReport.DanglingRedirects,
		DanglingLinks:     c.graphReport.DanglingLinks,
		SelfLoops:         c.graphReport.SelfLoops,
		DuplicateLinks:    c.graphReport.DuplicateLinks,
		Strategy:          string(trep.Strategy),
		Starts:            trep.Starts,
		SkippedStarts:     trep.SkippedStarts,
		Visited:           trep.Visited,
		Truncated:         trep.Truncated,
		ReferencePolicy:   string(cfg.ReferencePolicy()),
		Shards:            arep.Shards,
		Emitted:           arep.Documents,
		Tokens:            arep.Tokens,
		RewrittenLinks:    arep.RewrittenLinks,
		PlainLinks:        arep.PlainLinks,
		DeferredLinks:     arep.DeferredLinks,
		ExternalLinks:     arep.ExternalLinks,
		MissingDocuments:  arep.MissingDocuments,
		OversizeDocuments: arep.OversizeDocuments,
	}
}

// Run assembles the corpus into w and commits the run manifest. Without a
// manifest the output is incomplete, so a failed run never looks finished.
func Run(ctx context.Context, c *Corpus, cfg Config, w *shard.Writer) (*Summary, error) {
	s, err := c.Assemble(ctx, cfg, w)
	if err != nil {
		return nil, err
	}
	s.RunID = w.RunID()
	if _, err := w.Commit(ctx, shard.Manifest{Config: cfg, Summary: s}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return s, nil
}

// Experiment is one named run of RunConcurrent.
type Experiment struct {
	Name   string
	Config Config
	Writer *shard.Writer
}

// RunConcurrent runs experiments against the shared corpus in parallel,
// bounded by the run slots. Every configuration is validated before any
// run starts. The first failure cancels the remaining runs; summaries are
// returned in experiment order.
func (c *Corpus) RunConcurrent(ctx context.Context, exps []Experiment) ([]*Summary, error) {
	for _, e := range exps {
		if err := e.Config.Validate(); err != nil {
			return nil, fmt.Errorf("experiment %s: %w", e.Name, err)
		}
	}

	out := make([]*Summary, len(exps))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range exps {
		g.Go(func() error {
			s, err := Run(gctx, c, e.Config, e.Writer)
			if err != nil {
				return fmt.Errorf("experiment %s: %w", e.Name, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
