package shard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/internal/hash"
	"github.com/hupe1980/linkweave/internal/resource"
)

// Observer is called after every shard write.
type Observer func(info Info, elapsed time.Duration)

type options struct {
	codec       codec.Codec
	compression Compression
	controller  *resource.Controller
	logger      *slog.Logger
	observers   []Observer
	runID       string
}

// Option configures a Writer.
type Option func(*options)

// WithCodec sets the record codec. Default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the shard compression. Default is None.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithController throttles shard writes through c.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
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

// WithObserver registers a callback for written shards. Observers run in
// registration order.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.runID = id
		}
	}
}

// Writer is an assemble.Sink that persists shards to a blob store.
// WriteShard calls must arrive in shard order; the Assembler guarantees this.
type Writer struct {
	store blobstore.Store
	opts  options

	mu        sync.Mutex
	shards    []Info
	committed bool
}

var _ assemble.Sink = (*Writer)(nil)

// NewWriter creates a Writer for store.
func NewWriter(store blobstore.Store, opts ...Option) *Writer {
	o := options{
		codec:       codec.Default,
		compression: None,
		logger:      slog.New(slog.DiscardHandler),
		runID:       uuid.NewString(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{store: store, opts: o}
}

// RunID returns the run identifier recorded in the manifest.
func (w *Writer) RunID() string {
	return w.opts.runID
}

// Name returns the file name of shard i.
func (w *Writer) Name(i int) string {
	return fmt.Sprintf("shard-%05d.jsonl%s", i, w.opts.compression.Ext())
}

// Encode renders a shard as NDJSON and compresses it.
func (w *Writer) Encode(s *assemble.Shard) (raw int, data []byte, err error) {
	var buf []byte
	for i := range s.Documents {
		buf, err = codec.AppendLine(w.opts.codec, buf, &s.Documents[i])
		if err != nil {
			return 0, nil, fmt.Errorf("shard: encode document %d: %w", s.Documents[i].ID, err)
		}
	}
	data, err = compress(w.opts.compression, buf)
	if err != nil {
		return 0, nil, fmt.Errorf("shard: compress: %w", err)
	}
	return len(buf), data, nil
}

// WriteShard implements assemble.Sink.
func (w *Writer) WriteShard(ctx context.Context, s *assemble.Shard) error {
	start := time.Now()
	raw, data, err := w.Encode(s)
	if err != nil {
		return err
	}
	if err := w.opts.controller.AcquireIO(ctx, len(data)); err != nil {
		return err
	}

	info := Info{
		Index:     s.Index,
		Name:      w.Name(s.Index),
		Documents: len(s.Documents),
		Tokens:    s.Tokens,
		Bytes:     int64(len(data)),
		RawBytes:  int64(raw),
		Checksum:  hash.Format(hash.Sum(data)),
		FirstID:   s.FirstID(),
		LastID:    s.LastID(),
	}
	if err := w.store.Put(ctx, info.Name, data); err != nil {
		w.opts.logger.Error("shard write failed", "shard", info.Name, "error", err)
		return fmt.Errorf("shard: put %s: %w", info.Name, err)
	}

	w.mu.Lock()
	w.shards = append(w.shards, info)
	w.mu.Unlock()

	elapsed := time.Since(start)
	w.opts.logger.Info("shard written",
		"shard", info.Name,
		"documents", info.Documents,
		"tokens", info.Tokens,
		"bytes", info.Bytes,
		"elapsed", elapsed,
	)
	for _, fn := range w.opts.observers {
		fn(info, elapsed)
	}
	return nil
}

// Shards returns the shards written so far.
func (w *Writer) Shards() []Info {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Info(nil), w.shards...)
}

// Commit writes the manifest, which makes the run visible as complete.
// Fields describing the shards are filled in from the written shards; m
// supplies Config and Summary. Commit may be called once.
func (w *Writer) Commit(ctx context.Context, m Manifest) (*Manifest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.committed {
		return nil, fmt.Errorf("shard: run %s already committed", w.opts.runID)
	}

	m.Version = ManifestVersion
	m.RunID = w.opts.runID
	m.CreatedAt = time.Now().UTC()
	m.Codec = w.opts.codec.Name()
	m.Compression = w.opts.compression
	m.Shards = append([]Info(nil), w.shards...)
	m.Documents, m.Tokens = 0, 0
	for _, s := range m.Shards {
		m.Documents += s.Documents
		m.Tokens += s.Tokens
	}

	data, err := codec.Default.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("shard: encode manifest: %w", err)
	}
	if err := w.store.Put(ctx, ManifestName, data); err != nil {
		return nil, fmt.Errorf("shard: commit: %w", err)
	}
	w.committed = true
	w.opts.logger.Info("run committed", "run_id", m.RunID, "shards", len(m.Shards), "documents", m.Documents)
	return &m, nil
}
