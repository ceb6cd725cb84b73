package assemble

import (
	"context"
	"sync"

	"github.com/hupe1980/linkweave/model"
)

// Shard is a closed, ordered group of rewritten documents.
type Shard struct {
	// Index numbers shards sequentially from 0.
	Index     int
	Documents []model.Document
	Tokens    int
}

// FirstID returns the ID of the first document, or 0 for an empty shard.
func (s *Shard) FirstID() model.ID {
	if len(s.Documents) == 0 {
		return 0
	}
	return s.Documents[0].ID
}

// LastID returns the ID of the last document, or 0 for an empty shard.
func (s *Shard) LastID() model.ID {
	if len(s.Documents) == 0 {
		return 0
	}
	return s.Documents[len(s.Documents)-1].ID
}

// Sink receives closed shards in order. The Assembler never touches a shard
// after handing it to the sink.
type Sink interface {
	WriteShard(ctx context.Context, s *Shard) error
}

// Collector is an in-memory Sink.
type Collector struct {
	mu     sync.Mutex
	shards []*Shard
}

// WriteShard implements Sink.
func (c *Collector) WriteShard(_ context.Context, s *Shard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shards = append(c.shards, s)
	return nil
}

// Shards returns the collected shards.
func (c *Collector) Shards() []*Shard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Shard(nil), c.shards...)
}

// Documents returns all collected documents in output order.
func (c *Collector) Documents() []model.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	var docs []model.Document
	for _, s := range c.shards {
		docs = append(docs, s.Documents...)
	}
	return docs
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, s *Shard) error

// WriteShard implements Sink.
func (f SinkFunc) WriteShard(ctx context.Context, s *Shard) error {
	return f(ctx, s)
}
