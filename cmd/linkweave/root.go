package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/linkweave"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/corpus"
	"github.com/hupe1980/linkweave/model"
)

type rootOpts struct {
	logLevel        string
	logFormat       string
	workers         int
	caseInsensitive bool
}

var longRootCmdDescription = `linkweave resolves the hyperlinks of an extracted article corpus into a
graph, traverses it and writes the documents in traversal order into
token-budgeted shards, rewriting links into stable doc:<id> references.
`

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	cmd := &cobra.Command{
		Use:           "linkweave",
		Short:         "Build graph-coherent training datasets",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	pf.IntVar(&opts.workers, "workers", 0, "link resolution goroutines (0 uses all CPUs)")
	pf.BoolVar(&opts.caseInsensitive, "case-insensitive", false, "case-fold titles before lookup")

	cmd.AddCommand(
		newRunCmd(opts),
		newStatsCmd(opts),
		newSnapshotCmd(opts),
		newVerifyCmd(opts),
	)
	return cmd
}

func (o *rootOpts) logger() (*linkweave.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", o.logLevel)
	}
	switch strings.ToLower(o.logFormat) {
	case "text":
		return linkweave.NewTextLogger(level), nil
	case "json":
		return linkweave.NewJSONLogger(level), nil
	}
	return nil, fmt.Errorf("invalid --log-format %q", o.logFormat)
}

func (o *rootOpts) options(logger *linkweave.Logger) []linkweave.Option {
	opts := []linkweave.Option{
		linkweave.WithLogger(logger),
		linkweave.WithWorkers(o.workers),
	}
	if o.caseInsensitive {
		opts = append(opts, linkweave.WithCaseInsensitiveTitles())
	}
	return opts
}

// inputOpts selects the corpus files.
type inputOpts struct {
	input     string
	redirects string
	codec     string
}

func (o *inputOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.input, "input", "i", "", "document records (NDJSON, optionally .gz/.zst/.lz4/.bz2; - for stdin)")
	cmd.Flags().StringVar(&o.redirects, "redirects", "", "redirect records (NDJSON)")
	cmd.Flags().StringVar(&o.codec, "input-codec", "", "JSON codec for reading: json or go-json")
	_ = cmd.MarkFlagRequired("input")
}

func (o *inputOpts) load(logger *linkweave.Logger) (*corpus.MemoryStore, []model.Redirect, error) {
	c, err := codec.Parse(o.codec)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	docs, err := corpus.LoadDocuments(o.input, corpus.WithCodec(c))
	if err != nil {
		return nil, nil, err
	}
	var redirects []model.Redirect
	if o.redirects != "" {
		if redirects, err = corpus.LoadRedirects(o.redirects, corpus.WithCodec(c)); err != nil {
			return nil, nil, err
		}
	}
	logger.Info("corpus loaded",
		"documents", docs.Len(),
		"redirects", len(redirects),
		"elapsed", time.Since(start),
	)
	return docs, redirects, nil
}

func buildCorpus(ctx context.Context, root *rootOpts, in *inputOpts, extra ...linkweave.Option) (*linkweave.Corpus, *linkweave.Logger, error) {
	logger, err := root.logger()
	if err != nil {
		return nil, nil, err
	}
	docs, redirects, err := in.load(logger)
	if err != nil {
		return nil, nil, err
	}
	c, err := linkweave.Build(ctx, docs.Documents(), redirects, append(root.options(logger), extra...)...)
	if err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}
