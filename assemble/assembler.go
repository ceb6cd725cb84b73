package assemble

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/linkweave/graph"
	"github.com/hupe1980/linkweave/model"
)

// DocumentSource looks up document bodies by ID.
type DocumentSource interface {
	Document(id model.ID) (model.Document, bool)
}

// Report summarizes one assembly run.
type Report struct {
	Shards    int
	Documents int
	Tokens    int
	// RewrittenLinks counts links emitted as doc:<id> references.
	RewrittenLinks int
	// PlainLinks counts internal links replaced by their label.
	PlainLinks int
	// DeferredLinks counts the PlainLinks whose target resolved to an edge
	// but was rejected by the reference policy.
	DeferredLinks int
	ExternalLinks int
	// MissingDocuments counts IDs without a body in the DocumentSource.
	MissingDocuments int
	// OversizeDocuments counts documents larger than the token budget.
	OversizeDocuments int
}

type options struct {
	tokens   TokenLengthFunc
	logger   *slog.Logger
	progress int
}

// Option configures an Assembler.
type Option func(*options)

// WithTokenLength sets the token estimator. Default is WhitespaceTokens.
func WithTokenLength(fn TokenLengthFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.tokens = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgressInterval logs progress every n documents. 0 disables it.
func WithProgressInterval(n int) Option {
	return func(o *options) {
		o.progress = max(n, 0)
	}
}

// Assembler rewrites and shards documents in traversal order. It holds only
// read-only collaborators and may be shared; each Assemble call keeps its
// own state.
type Assembler struct {
	g      *graph.Graph
	titles graph.TitleResolver
	docs   DocumentSource
	cfg    Config
	opts   options
}

// New validates cfg and returns an Assembler.
func New(g *graph.Graph, titles graph.TitleResolver, docs DocumentSource, cfg Config, opts ...Option) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{
		tokens:   WhitespaceTokens,
		logger:   slog.New(slog.DiscardHandler),
		progress: 100_000,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Assembler{g: g, titles: titles, docs: docs, cfg: cfg, opts: o}, nil
}

// run is the per-call state of Assemble.
type run struct {
	*Assembler
	sink    Sink
	allowed *roaring.Bitmap // nodes a reference may point at
	current *Shard
	report  Report
}

// Assemble consumes ids and hands every closed shard to sink. It returns on
// the first sink error, wrapped in ErrSinkWrite; shards already handed to
// the sink stay written.
func (a *Assembler) Assemble(ctx context.Context, ids iter.Seq[model.ID], sink Sink) (Report, error) {
	r := &run{
		Assembler: a,
		sink:      sink,
		allowed:   roaring.New(),
		current:   &Shard{},
	}

	if a.cfg.policy() == OutputSet {
		order := slices.Collect(ids)
		for _, id := range order {
			if n, ok := a.g.Lookup(id); ok {
				if _, ok := a.docs.Document(id); ok {
					r.allowed.Add(n)
				}
			}
		}
		ids = slices.Values(order)
	}

	for id := range ids {
		if err := ctx.Err(); err != nil {
			return r.report, err
		}
		if err := r.add(ctx, id); err != nil {
			return r.report, err
		}
	}
	if len(r.current.Documents) > 0 {
		if err := r.flush(ctx); err != nil {
			return r.report, err
		}
	}

	a.opts.logger.Info("assembly finished",
		"shards", r.report.Shards,
		"documents", r.report.Documents,
		"tokens", r.report.Tokens,
		"rewritten_links", r.report.RewrittenLinks,
		"plain_links", r.report.PlainLinks,
		"missing_documents", r.report.MissingDocuments,
	)
	return r.report, nil
}

func (r *run) add(ctx context.Context, id model.ID) error {
	doc, ok := r.docs.Document(id)
	if !ok {
		r.report.MissingDocuments++
		r.opts.logger.Warn("document body missing", "id", uint64(id))
		return nil
	}

	src, inGraph := r.g.Lookup(id)
	if inGraph && r.cfg.policy() == Backward {
		r.allowed.Add(src)
	}
	doc.Text = rewriteLinks(doc.Text, func(l Link) string {
		return r.rewrite(src, inGraph, l)
	})
	tokens := r.opts.tokens(doc.Text)

	if len(r.current.Documents) > 0 && r.exceeds(tokens) {
		if err := r.flush(ctx); err != nil {
			return err
		}
	}
	if r.cfg.TokenBudget != Unbounded && tokens > r.cfg.TokenBudget {
		r.report.OversizeDocuments++
		r.opts.logger.Warn("document exceeds shard token budget",
			"id", uint64(id), "tokens", tokens, "budget", r.cfg.TokenBudget)
	}

	r.current.Documents = append(r.current.Documents, doc)
	r.current.Tokens += tokens
	r.report.Documents++
	r.report.Tokens += tokens
	if p := r.opts.progress; p > 0 && r.report.Documents%p == 0 {
		r.opts.logger.Info("assembly progress", "documents", r.report.Documents, "shards", r.report.Shards)
	}
	return nil
}

// exceeds reports whether appending a document of the given size would
// break a budget of the current shard.
func (r *run) exceeds(tokens int) bool {
	if r.cfg.DocBudget != Unbounded && len(r.current.Documents)+1 > r.cfg.DocBudget {
		return true
	}
	return r.cfg.TokenBudget != Unbounded && r.current.Tokens+tokens > r.cfg.TokenBudget
}

func (r *run) rewrite(src graph.Node, inGraph bool, l Link) string {
	switch l.Kind() {
	case External:
		r.report.ExternalLinks++
		return l.Raw
	case DocReference:
		if id, ok := l.ReferenceID(); ok {
			if n, ok := r.g.Lookup(id); ok && r.allowed.Contains(n) {
				r.report.RewrittenLinks++
				return Reference(l.Label, id)
			}
		}
		r.report.PlainLinks++
		return l.Label
	}

	id, ok := r.titles.Resolve(l.Title())
	if !ok || !inGraph {
		r.report.PlainLinks++
		r.opts.logger.Debug("link demoted to label", "target", l.Target, "reason", "unresolved")
		return l.Label
	}
	dst, ok := r.g.Lookup(id)
	if !ok || !slices.Contains(r.g.Adjacent(src), dst) {
		r.report.PlainLinks++
		r.opts.logger.Debug("link demoted to label", "target", l.Target, "reason", "no edge")
		return l.Label
	}
	if !r.allowed.Contains(dst) {
		r.report.PlainLinks++
		r.report.DeferredLinks++
		r.opts.logger.Debug("link demoted to label", "target", l.Target, "reason", "policy")
		return l.Label
	}
	r.report.RewrittenLinks++
	return Reference(l.Label, id)
}

func (r *run) flush(ctx context.Context) error {
	s := r.current
	s.Index = r.report.Shards
	if err := r.sink.WriteShard(ctx, s); err != nil {
		return fmt.Errorf("%w: shard %d: %w", ErrSinkWrite, s.Index, err)
	}
	r.report.Shards++
	r.opts.logger.Debug("shard closed", "index", s.Index, "documents", len(s.Documents), "tokens", s.Tokens)
	r.current = &Shard{}
	return nil
}
