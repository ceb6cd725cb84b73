package linkweave

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives pipeline measurements.
// Implement it to integrate with monitoring systems; see
// metrics/prometheus for a Prometheus adapter.
type MetricsCollector interface {
	// RecordBuild is called once per Build with the corpus size.
	RecordBuild(documents, edges int, duration time.Duration, err error)

	// RecordTraversal is called after each run with the number of visited
	// documents.
	RecordTraversal(strategy string, visited int, duration time.Duration, err error)

	// RecordShard is called after each shard write.
	RecordShard(documents, tokens int, bytes int64, duration time.Duration)

	// RecordLinks is called after each run with the link rewrite outcome.
	RecordLinks(rewritten, plain int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordTraversal(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordShard(int, int, int64, time.Duration)        {}
func (NoopMetricsCollector) RecordLinks(int, int)                              {}

// BasicMetricsCollector keeps in-memory counters.
// Useful for debugging and tests.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	Documents       atomic.Int64
	Edges           atomic.Int64
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
	Visited         atomic.Int64
	ShardCount      atomic.Int64
	ShardDocuments  atomic.Int64
	ShardTokens     atomic.Int64
	ShardBytes      atomic.Int64
	ShardTotalNanos atomic.Int64
	RewrittenLinks  atomic.Int64
	PlainLinks      atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(documents, edges int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.Documents.Store(int64(documents))
	b.Edges.Store(int64(edges))
}

// RecordTraversal implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTraversal(_ string, visited int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.Visited.Add(int64(visited))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordShard implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShard(documents, tokens int, bytes int64, duration time.Duration) {
	b.ShardCount.Add(1)
	b.ShardDocuments.Add(int64(documents))
	b.ShardTokens.Add(int64(tokens))
	b.ShardBytes.Add(bytes)
	b.ShardTotalNanos.Add(duration.Nanoseconds())
}

// RecordLinks implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLinks(rewritten, plain int) {
	b.RewrittenLinks.Add(int64(rewritten))
	b.PlainLinks.Add(int64(plain))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		Documents:      b.Documents.Load(),
		Edges:          b.Edges.Load(),
		RunCount:       b.RunCount.Load(),
		RunErrors:      b.RunErrors.Load(),
		RunAvgNanos:    avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		Visited:        b.Visited.Load(),
		ShardCount:     b.ShardCount.Load(),
		ShardDocuments: b.ShardDocuments.Load(),
		ShardTokens:    b.ShardTokens.Load(),
		ShardBytes:     b.ShardBytes.Load(),
		ShardAvgNanos:  avg(b.ShardTotalNanos.Load(), b.ShardCount.Load()),
		RewrittenLinks: b.RewrittenLinks.Load(),
		PlainLinks:     b.PlainLinks.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	Documents      int64
	Edges          int64
	RunCount       int64
	RunErrors      int64
	RunAvgNanos    int64
	Visited        int64
	ShardCount     int64
	ShardDocuments int64
	ShardTokens    int64
	ShardBytes     int64
	ShardAvgNanos  int64
	RewrittenLinks int64
	PlainLinks     int64
}
