package traverse

import (
	"iter"
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/linkweave/graph"
	"github.com/hupe1980/linkweave/model"
)

// Visit is one yielded node.
type Visit struct {
	ID    model.ID
	Node  graph.Node
	Depth int
}

// Report summarizes a traversal run. It is final once Next returned false.
type Report struct {
	Strategy Strategy
	// Starts is the number of start IDs found in the graph.
	Starts int
	// SkippedStarts lists start IDs absent from the graph, in config order.
	SkippedStarts []model.ID
	Visited       int
	// Truncated is set when MaxNodes stopped a traversal that had nodes left.
	Truncated bool
}

type options struct {
	logger *slog.Logger
}

// Option configures a Traversal.
type Option func(*options)

// WithLogger sets the logger for skipped start IDs and run summaries.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// strategy produces the next unvisited node or false when every start is
// exhausted.
type strategy interface {
	next() (Visit, bool)
}

// Traversal is a lazy, single-use walk over a Graph.
// It is not safe for concurrent use; create one per goroutine.
type Traversal struct {
	g       *graph.Graph
	cfg     Config
	logger  *slog.Logger
	starts  []graph.Node
	cursor  int
	visited *roaring.Bitmap
	walk    strategy
	report  Report
	done    bool
}

// New validates cfg, resolves the start nodes and returns a Traversal
// positioned before the first node. No node is visited until Next is called.
func New(g *graph.Graph, cfg Config, opts ...Option) (*Traversal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Strategy, _ = ParseStrategy(string(cfg.Strategy))

	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Traversal{
		g:       g,
		cfg:     cfg,
		logger:  o.logger,
		visited: roaring.New(),
		report:  Report{Strategy: cfg.Strategy},
	}
	t.starts = t.resolveStarts()
	t.report.Starts = len(t.starts)

	switch cfg.Strategy {
	case BreadthFirst:
		t.walk = &breadthFirst{t: t}
	case DepthFirst:
		t.walk = &depthFirst{t: t}
	case RandomWalk:
		t.walk = newRandomWalk(t, cfg.Seed)
	}
	return t, nil
}

func (t *Traversal) resolveStarts() []graph.Node {
	var ids []model.ID
	switch {
	case t.cfg.startRule() == StartHighestInDegree && len(t.cfg.StartIDs) == 0:
		ids = t.g.TopByInDegree(0)
	default:
		ids = t.cfg.StartIDs
	}

	nodes := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := t.g.Lookup(id)
		if !ok {
			t.report.SkippedStarts = append(t.report.SkippedStarts, id)
			t.logger.Warn("start id not in graph", "id", uint64(id))
			continue
		}
		nodes = append(nodes, n)
	}

	if t.cfg.startRule() == StartHighestInDegree && len(t.cfg.StartIDs) > 0 {
		sortByInDegree(t.g, nodes)
	}
	return nodes
}

// nextStart returns the next configured start node that has not been
// visited yet.
func (t *Traversal) nextStart() (graph.Node, bool) {
	for t.cursor < len(t.starts) {
		n := t.starts[t.cursor]
		t.cursor++
		if !t.visited.Contains(n) {
			return n, true
		}
	}
	return 0, false
}

// expands reports whether neighbors of a node at depth may be yielded.
func (t *Traversal) expands(depth int) bool {
	return t.cfg.MaxDepth == Unbounded || depth < t.cfg.MaxDepth
}

func (t *Traversal) visit(n graph.Node, depth int) Visit {
	t.visited.Add(n)
	return Visit{ID: t.g.ID(n), Node: n, Depth: depth}
}

// Next returns the next node in traversal order.
func (t *Traversal) Next() (Visit, bool) {
	if t.done {
		return Visit{}, false
	}
	if t.cfg.MaxNodes != Unbounded && t.report.Visited >= t.cfg.MaxNodes {
		if _, more := t.walk.next(); more {
			t.report.Truncated = true
		}
		t.finish()
		return Visit{}, false
	}
	v, ok := t.walk.next()
	if !ok {
		t.finish()
		return Visit{}, false
	}
	t.report.Visited++
	return v, true
}

// finish releases the visitation state. The graph itself is untouched.
func (t *Traversal) finish() {
	t.done = true
	t.walk = nil
	t.visited = nil
	t.starts = nil
	t.logger.Debug("traversal finished",
		"strategy", string(t.report.Strategy),
		"visited", t.report.Visited,
		"skipped_starts", len(t.report.SkippedStarts),
		"truncated", t.report.Truncated,
	)
}

// All yields the remaining visits.
func (t *Traversal) All() iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		for {
			v, ok := t.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// IDs yields the remaining document IDs.
func (t *Traversal) IDs() iter.Seq[model.ID] {
	return func(yield func(model.ID) bool) {
		for v := range t.All() {
			if !yield(v.ID) {
				return
			}
		}
	}
}

// Report returns the run statistics gathered so far.
func (t *Traversal) Report() Report {
	return t.report
}

// Order drains a new traversal and returns the full ID sequence.
func Order(g *graph.Graph, cfg Config, opts ...Option) ([]model.ID, Report, error) {
	t, err := New(g, cfg, opts...)
	if err != nil {
		return nil, Report{}, err
	}
	var ids []model.ID
	if cfg.MaxNodes > 0 {
		ids = make([]model.ID, 0, min(cfg.MaxNodes, g.Len()))
	}
	for id := range t.IDs() {
		ids = append(ids, id)
	}
	return ids, t.Report(), nil
}
