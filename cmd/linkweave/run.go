package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hupe1980/linkweave"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/graph"
	lwprom "github.com/hupe1980/linkweave/metrics/prometheus"
	"github.com/hupe1980/linkweave/shard"
)

type runOpts struct {
	inputOpts
	traversalFlags

	graph       string
	output      string
	configFile  string
	pages       bool
	compression string
	codec       string
	ioLimit     int64
	commitTable string
	metricsAddr string
	progress    bool
}

func newRunCmd(root *rootOpts) *cobra.Command {
	opts := &runOpts{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Traverse the corpus and write shards",
		Args:  cobra.NoArgs,
		Example: `linkweave run --input articles.jsonl.zst --output ./out --strategy random_walk --seed 7
linkweave run --input articles.jsonl --graph wiki.lwg --output s3://datasets/wiki --config run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, root)
		},
	}
	opts.inputOpts.addFlags(cmd)
	opts.traversalFlags.addFlags(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&opts.output, "output", "o", "", "output directory, s3://bucket/prefix or minio://bucket/prefix")
	fl.StringVarP(&opts.configFile, "config", "c", "", "YAML run configuration")
	fl.StringVar(&opts.graph, "graph", "", "graph snapshot to use instead of resolving links")
	fl.BoolVar(&opts.pages, "pages", false, "write one markdown file per document instead of shards")
	fl.StringVar(&opts.compression, "compression", "none", "shard compression: none, zstd or lz4")
	fl.StringVar(&opts.codec, "codec", "", "shard record codec: json or go-json")
	fl.Int64Var(&opts.ioLimit, "io-limit", 0, "shard write limit in bytes per second (0 unlimited)")
	fl.StringVar(&opts.commitTable, "commit-table", "", "DynamoDB table guarding the manifest of s3:// outputs")
	fl.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	fl.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr while shards are written")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (o *runOpts) run(cmd *cobra.Command, root *rootOpts) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(o.configFile)
	if err != nil {
		return err
	}
	if err := o.traversalFlags.apply(cmd, &cfg); err != nil {
		return err
	}
	compression, err := shard.ParseCompression(o.compression)
	if err != nil {
		return err
	}
	shardCodec, err := codec.Parse(o.codec)
	if err != nil {
		return err
	}
	out, err := parseOutput(o.output)
	if err != nil {
		return err
	}

	extra := []linkweave.Option{
		linkweave.WithCompression(compression),
		linkweave.WithCodec(shardCodec),
		linkweave.WithIOLimit(o.ioLimit),
	}
	if o.graph != "" {
		g, err := readSnapshot(o.graph)
		if err != nil {
			return err
		}
		extra = append(extra, linkweave.WithGraph(g))
	}
	if o.metricsAddr != "" {
		stop, mc := serveMetrics(o.metricsAddr)
		defer stop()
		extra = append(extra, linkweave.WithMetricsCollector(mc))
	}

	c, logger, err := buildCorpus(ctx, root, &o.inputOpts, extra...)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, out, o.commitTable)
	if err != nil {
		return err
	}

	var summary *linkweave.Summary
	if o.pages {
		summary, err = c.Assemble(ctx, cfg, shard.NewPageWriter(store, logger.Logger))
	} else {
		var wopts []shard.Option
		if o.progress {
			bar := newProgressBar(cmd.ErrOrStderr(), expectedDocuments(c, cfg))
			defer func() { _ = bar.Finish() }()
			wopts = append(wopts, shard.WithObserver(func(info shard.Info, _ time.Duration) {
				_ = bar.Add(info.Documents)
			}))
		}
		summary, err = linkweave.Run(ctx, c, cfg, c.NewWriter(store, wopts...))
	}
	if err != nil {
		return err
	}
	logger.LogRun(ctx, summary, nil)
	return printJSON(cmd.OutOrStdout(), summary)
}

// expectedDocuments bounds the documents a run can emit.
func expectedDocuments(c *linkweave.Corpus, cfg linkweave.Config) int {
	n := c.Len()
	if m := cfg.Traversal.MaxNodes; m != linkweave.Unbounded {
		n = min(n, m)
	}
	return n
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("assembling"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func readSnapshot(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return graph.ReadSnapshot(f)
}

// serveMetrics exposes a fresh registry on addr until stop is called.
func serveMetrics(addr string) (stop func(), mc *lwprom.Collector) {
	reg := prometheus.NewRegistry()
	mc = lwprom.New(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "linkweave: metrics server: %v\n", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, mc
}

func printJSON(w io.Writer, v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
