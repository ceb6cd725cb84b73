package linkweave

import (
	"log/slog"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/graph"
	"github.com/hupe1980/linkweave/shard"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	workers          int
	caseInsensitive  bool
	tokens           assemble.TokenLengthFunc
	graph            *graph.Graph
	codec            codec.Codec
	compression      shard.Compression
	maxRuns          int64
	ioLimit          int64
	progress         int
}

// Option configures Build and the runs of the resulting Corpus.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
//	logger := linkweave.NewJSONLogger(slog.LevelInfo)
//	c, _ := linkweave.Build(ctx, docs, redirects, linkweave.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &linkweave.BasicMetricsCollector{}
//	c, _ := linkweave.Build(ctx, docs, nil, linkweave.WithMetricsCollector(metrics))
//	// ... run ...
//	fmt.Println(metrics.GetStats().ShardCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithWorkers sets the number of goroutines resolving links.
// Values <= 0 use GOMAXPROCS. The graph does not depend on this value.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCaseInsensitiveTitles additionally case-folds titles before lookup.
func WithCaseInsensitiveTitles() Option {
	return func(o *options) {
		o.caseInsensitive = true
	}
}

// WithTokenLength overrides the token estimator named by Config.Tokenizer.
func WithTokenLength(fn assemble.TokenLengthFunc) Option {
	return func(o *options) {
		o.tokens = fn
	}
}

// WithGraph skips link resolution and uses g, typically loaded from a
// snapshot. Build checks that g has exactly one node per document.
func WithGraph(g *graph.Graph) Option {
	return func(o *options) {
		o.graph = g
	}
}

// WithCodec sets the codec of shard records written by NewWriter.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the shard compression used by NewWriter.
func WithCompression(c shard.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMaxConcurrentRuns bounds how many runs execute at once against the
// corpus. Further runs wait for a free slot.
func WithMaxConcurrentRuns(n int) Option {
	return func(o *options) {
		o.maxRuns = int64(n)
	}
}

// WithIOLimit caps shard write throughput of writers created by NewWriter,
// in bytes per second, shared by all runs. 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithProgressInterval logs assembly progress every n documents.
// 0 disables progress logging.
func WithProgressInterval(n int) Option {
	return func(o *options) {
		o.progress = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		codec:            codec.Default,
		compression:      shard.None,
		progress:         100_000,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
