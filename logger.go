package linkweave

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with linkweave-specific helpers.
// Field names are consistent across the pipeline stages.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithRun tags every record with a run name.
func (l *Logger) WithRun(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", name),
	}
}

// LogBuild logs corpus construction.
func (l *Logger) LogBuild(ctx context.Context, c *Corpus, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "corpus build failed",
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "corpus built",
		"documents", c.graph.Len(),
		"edges", c.graph.EdgeCount(),
		"titles", c.titleReport.Titles,
		"aliases", c.titleReport.Aliases,
		"collisions", len(c.titleReport.Collisions),
		"dangling_links", c.graphReport.DanglingLinks,
		"elapsed", elapsed,
	)
}

// LogRun logs the outcome of a traversal run.
func (l *Logger) LogRun(ctx context.Context, s *Summary, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"error", err,
		)
		return
	}
	if n := len(s.SkippedStarts); n > 0 {
		l.WarnContext(ctx, "start ids not in corpus",
			"count", n,
		)
	}
	l.InfoContext(ctx, "run completed",
		"strategy", s.Strategy,
		"visited", s.Visited,
		"documents", s.Emitted,
		"shards", s.Shards,
		"tokens", s.Tokens,
		"rewritten_links", s.RewrittenLinks,
		"plain_links", s.PlainLinks,
		"elapsed", s.Elapsed,
	)
}

// LogSnapshot logs a graph snapshot write.
func (l *Logger) LogSnapshot(ctx context.Context, filename string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"filename", filename,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"filename", filename,
	)
}
