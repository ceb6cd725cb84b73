package graph

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/linkweave/model"
)

// TitleResolver maps a raw link title to a document ID.
// *titleindex.Index implements it.
type TitleResolver interface {
	Resolve(title string) (model.ID, bool)
}

// Report summarizes one resolution pass.
type Report struct {
	Documents int
	Edges     int
	// DanglingLinks counts links whose title resolves to no document in the
	// corpus.
	DanglingLinks  int
	SelfLoops      int
	DuplicateLinks int
	// Leaves counts documents without validated outgoing edges.
	Leaves int
	// Isolated counts documents with neither outgoing nor incoming edges.
	Isolated int
}

type options struct {
	workers int
	logger  *slog.Logger
}

// Option configures Resolve.
type Option func(*options)

// WithWorkers sets the number of resolution goroutines.
// Values <= 0 use GOMAXPROCS. The result does not depend on this value.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger for data-quality diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// CheckUnique returns a *DuplicateIDError for the smallest ID that appears
// more than once in docs.
func CheckUnique(docs []model.Document) error {
	ids := make([]model.ID, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}
	slices.Sort(ids)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return &DuplicateIDError{ID: ids[i]}
		}
	}
	return nil
}

// chunkSize bounds how many documents one task resolves before checking
// for cancellation.
const chunkSize = 4096

type counters struct {
	dangling, selfLoops, duplicates int
}

// Resolve builds the Resolved Graph of docs.
//
// Each raw outgoing title is mapped through titles; titles that do not
// resolve to a document of docs, self-references and repeated targets are
// dropped. A duplicate document ID aborts resolution with a
// *DuplicateIDError before any work is done. An empty corpus yields an
// empty graph.
func Resolve(ctx context.Context, docs []model.Document, titles TitleResolver, optFns ...Option) (*Graph, Report, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	if err := CheckUnique(docs); err != nil {
		return nil, Report{}, err
	}

	// rank -> position in docs, ascending by ID.
	order := make([]int, len(docs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return docs[order[a]].ID < docs[order[b]].ID
	})

	ids := make([]model.ID, len(docs))
	index := make(map[model.ID]Node, len(docs))
	for rank, pos := range order {
		ids[rank] = docs[pos].ID
		index[docs[pos].ID] = Node(rank)
	}

	adj := make([][]Node, len(docs))
	numChunks := (len(docs) + chunkSize - 1) / chunkSize
	partial := make([]counters, numChunks)
	debug := o.logger.Enabled(ctx, slog.LevelDebug)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for c := 0; c < numChunks; c++ {
		lo := c * chunkSize
		hi := min(lo+chunkSize, len(docs))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cnt := &partial[c]
			seen := make(map[Node]struct{})
			for rank := lo; rank < hi; rank++ {
				d := &docs[order[rank]]
				self := Node(rank)
				clear(seen)
				var nbrs []Node
				for _, raw := range d.OutgoingTitles {
					id, ok := titles.Resolve(raw)
					var target Node
					if ok {
						target, ok = index[id]
					}
					switch {
					case !ok:
						cnt.dangling++
						if debug {
							o.logger.Debug("dangling link", "id", uint64(d.ID), "target", raw)
						}
						continue
					case target == self:
						cnt.selfLoops++
						continue
					}
					if _, dup := seen[target]; dup {
						cnt.duplicates++
						continue
					}
					seen[target] = struct{}{}
					nbrs = append(nbrs, target)
				}
				adj[rank] = nbrs
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}

	graph := newGraph(ids, adj)

	rep := Report{
		Documents: graph.Len(),
		Edges:     graph.EdgeCount(),
	}
	for _, c := range partial {
		rep.DanglingLinks += c.dangling
		rep.SelfLoops += c.selfLoops
		rep.DuplicateLinks += c.duplicates
	}
	for n := range graph.Len() {
		if len(graph.Adjacent(Node(n))) == 0 {
			rep.Leaves++
			if graph.inDegree[n] == 0 {
				rep.Isolated++
			}
		}
	}

	o.logger.Info("graph resolved",
		"documents", rep.Documents,
		"edges", rep.Edges,
		"dangling_links", rep.DanglingLinks,
		"self_loops", rep.SelfLoops,
		"duplicate_links", rep.DuplicateLinks,
	)

	return graph, rep, nil
}
