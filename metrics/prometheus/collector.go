// Package prometheus exports linkweave pipeline metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, _ := linkweave.Build(ctx, docs, nil,
//	    linkweave.WithMetricsCollector(lwprom.New(reg)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prometheus

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/linkweave"
)

// Collector implements linkweave.MetricsCollector.
type Collector struct {
	opLatency      *prom.HistogramVec
	corpusDocs     prom.Gauge
	corpusEdges    prom.Gauge
	visited        *prom.CounterVec
	shards         prom.Counter
	shardDocuments prom.Counter
	shardTokens    prom.Counter
	shardBytes     prom.Histogram
	links          *prom.CounterVec
}

var _ linkweave.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func New(reg prom.Registerer) *Collector {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "linkweave_operation_duration_seconds",
			Help:    "Duration of pipeline operations",
			Buckets: prom.ExponentialBuckets(0.001, 4, 10),
		}, []string{"op", "status"}),
		corpusDocs: prom.NewGauge(prom.GaugeOpts{
			Name: "linkweave_corpus_documents",
			Help: "Documents in the most recently built corpus",
		}),
		corpusEdges: prom.NewGauge(prom.GaugeOpts{
			Name: "linkweave_corpus_edges",
			Help: "Validated links in the most recently built corpus",
		}),
		visited: prom.NewCounterVec(prom.CounterOpts{
			Name: "linkweave_traversal_visited_total",
			Help: "Documents visited by traversals",
		}, []string{"strategy"}),
		shards: prom.NewCounter(prom.CounterOpts{
			Name: "linkweave_shards_written_total",
			Help: "Shards written",
		}),
		shardDocuments: prom.NewCounter(prom.CounterOpts{
			Name: "linkweave_shard_documents_total",
			Help: "Documents written to shards",
		}),
		shardTokens: prom.NewCounter(prom.CounterOpts{
			Name: "linkweave_shard_tokens_total",
			Help: "Tokens written to shards",
		}),
		shardBytes: prom.NewHistogram(prom.HistogramOpts{
			Name:    "linkweave_shard_size_bytes",
			Help:    "Stored size of written shards",
			Buckets: prom.ExponentialBuckets(64<<10, 2, 12),
		}),
		links: prom.NewCounterVec(prom.CounterOpts{
			Name: "linkweave_links_total",
			Help: "Internal links by rewrite outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		c.opLatency,
		c.corpusDocs,
		c.corpusEdges,
		c.visited,
		c.shards,
		c.shardDocuments,
		c.shardTokens,
		c.shardBytes,
		c.links,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordBuild implements linkweave.MetricsCollector.
func (c *Collector) RecordBuild(documents, edges int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	if err == nil {
		c.corpusDocs.Set(float64(documents))
		c.corpusEdges.Set(float64(edges))
	}
}

// RecordTraversal implements linkweave.MetricsCollector.
func (c *Collector) RecordTraversal(strategy string, visited int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("run", status(err)).Observe(d.Seconds())
	c.visited.WithLabelValues(strategy).Add(float64(visited))
}

// RecordShard implements linkweave.MetricsCollector.
func (c *Collector) RecordShard(documents, tokens int, bytes int64, d time.Duration) {
	c.opLatency.WithLabelValues("shard_write", "success").Observe(d.Seconds())
	c.shards.Inc()
	c.shardDocuments.Add(float64(documents))
	c.shardTokens.Add(float64(tokens))
	c.shardBytes.Observe(float64(bytes))
}

// RecordLinks implements linkweave.MetricsCollector.
func (c *Collector) RecordLinks(rewritten, plain int) {
	c.links.WithLabelValues("rewritten").Add(float64(rewritten))
	c.links.WithLabelValues("plain").Add(float64(plain))
}
