package titleindex

import (
	"log/slog"
	"sort"

	"github.com/hupe1980/linkweave/model"
)

// Collision records a title claimed by more than one document.
type Collision struct {
	// Key is the normalized title.
	Key string
	// Kept is the ID the title resolves to.
	Kept model.ID
	// Dropped is the ID whose claim was ignored.
	Dropped model.ID
	// Alias is true when the losing claim came from a redirect.
	Alias bool
}

// Report summarizes index construction.
type Report struct {
	Titles            int
	Aliases           int
	EmptyTitles       int
	DanglingRedirects int
	Collisions        []Collision
}

// Index resolves titles and aliases to document IDs.
// It is read-only after Build and safe for concurrent use.
type Index struct {
	keys   map[string]model.ID
	titles map[model.ID]string
	key    func(string) string
}

type options struct {
	logger          *slog.Logger
	caseInsensitive bool
}

// Option configures Build.
type Option func(*options)

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCaseInsensitive folds case on every key in addition to Normalize.
func WithCaseInsensitive() Option {
	return func(o *options) {
		o.caseInsensitive = true
	}
}

// Build indexes document titles, then redirect aliases.
//
// Redirect chains (A -> B -> C) resolve regardless of their order in
// redirects; aliases whose target never resolves are counted as dangling.
func Build(docs []model.Document, redirects []model.Redirect, optFns ...Option) (*Index, Report) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	idx := &Index{
		keys:   make(map[string]model.ID, len(docs)+len(redirects)),
		titles: make(map[model.ID]string, len(docs)),
		key:    Normalize,
	}
	if o.caseInsensitive {
		idx.key = fold
	}

	var rep Report

	order := make([]int, len(docs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return docs[order[a]].ID < docs[order[b]].ID
	})

	for _, i := range order {
		d := &docs[i]
		k := idx.key(d.Title)
		if k == "" {
			rep.EmptyTitles++
			o.logger.Warn("document has empty title", "id", uint64(d.ID))
			continue
		}
		if _, ok := idx.titles[d.ID]; !ok {
			idx.titles[d.ID] = d.Title
		}
		if kept, ok := idx.keys[k]; ok {
			if kept != d.ID {
				rep.Collisions = append(rep.Collisions, Collision{Key: k, Kept: kept, Dropped: d.ID})
				o.logger.Warn("title collision", "title", k, "kept", uint64(kept), "dropped", uint64(d.ID))
			}
			continue
		}
		idx.keys[k] = d.ID
		rep.Titles++
	}

	pending := redirects
	for len(pending) > 0 {
		var next []model.Redirect
		for _, r := range pending {
			target, ok := idx.keys[idx.key(r.Target)]
			if !ok {
				next = append(next, r)
				continue
			}
			alias := idx.key(r.Title)
			if alias == "" {
				rep.EmptyTitles++
				continue
			}
			if kept, ok := idx.keys[alias]; ok {
				if kept != target {
					rep.Collisions = append(rep.Collisions, Collision{Key: alias, Kept: kept, Dropped: target, Alias: true})
					o.logger.Warn("redirect alias collides with existing title", "title", alias, "kept", uint64(kept), "dropped", uint64(target))
				}
				continue
			}
			idx.keys[alias] = target
			rep.Aliases++
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	if n := len(pending); n > 0 {
		rep.DanglingRedirects = n
		o.logger.Debug("redirects with unresolved targets", "count", n)
	}

	return idx, rep
}

// Resolve returns the document ID for a title or alias.
func (idx *Index) Resolve(title string) (model.ID, bool) {
	k := idx.key(title)
	if k == "" {
		return 0, false
	}
	id, ok := idx.keys[k]
	return id, ok
}

// Title returns the canonical title of a document.
func (idx *Index) Title(id model.ID) (string, bool) {
	t, ok := idx.titles[id]
	return t, ok
}

// Len returns the number of resolvable keys (titles plus aliases).
func (idx *Index) Len() int {
	return len(idx.keys)
}
