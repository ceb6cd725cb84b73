package shard

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/model"
)

const maxPageName = 200

var unsafeChars = regexp.MustCompile(`[/\\?%*:|"<>\s]`)

// SafeName turns a title into a portable file name stem: path separators,
// shell metacharacters and whitespace become underscores and the result is
// cut to 200 bytes on a rune boundary.
func SafeName(title string) string {
	s := unsafeChars.ReplaceAllString(title, "_")
	if len(s) <= maxPageName {
		return s
	}
	cut := maxPageName
	for cut > 0 && !runeStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func runeStart(b byte) bool {
	return b&0xC0 != 0x80
}

// PageWriter is an assemble.Sink that writes each document as its own
// markdown file named after its title. It is meant for inspecting small
// outputs; the shard grouping is not preserved.
type PageWriter struct {
	store  blobstore.Store
	logger *slog.Logger

	mu    sync.Mutex
	names map[string]model.ID
}

var _ assemble.Sink = (*PageWriter)(nil)

// NewPageWriter creates a PageWriter for store.
func NewPageWriter(store blobstore.Store, logger *slog.Logger) *PageWriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PageWriter{store: store, logger: logger, names: make(map[string]model.ID)}
}

// PageName returns the file name for d. Titles that collide after
// sanitizing get the document ID appended.
func (p *PageWriter) PageName(d *model.Document) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	stem := SafeName(d.Title)
	if stem == "" {
		stem = "untitled"
	}
	if owner, ok := p.names[stem]; ok && owner != d.ID {
		stem = fmt.Sprintf("%s_%d", stem, d.ID)
	}
	p.names[stem] = d.ID
	return stem + ".md"
}

// WriteShard implements assemble.Sink.
func (p *PageWriter) WriteShard(ctx context.Context, s *assemble.Shard) error {
	for i := range s.Documents {
		d := &s.Documents[i]
		name := p.PageName(d)
		body := fmt.Sprintf("# %s\n\n%s\n", d.Title, d.Text)
		if err := p.store.Put(ctx, name, []byte(body)); err != nil {
			return fmt.Errorf("shard: put page %s: %w", name, err)
		}
	}
	p.logger.Debug("pages written", "shard", s.Index, "documents", len(s.Documents))
	return nil
}
