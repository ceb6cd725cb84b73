package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/linkweave/graph"
)

type snapshotOpts struct {
	inputOpts
	out string
}

func newSnapshotCmd(root *rootOpts) *cobra.Command {
	opts := &snapshotOpts{}
	cmd := &cobra.Command{
		Use:     "snapshot",
		Short:   "Resolve the link graph once and save it",
		Args:    cobra.NoArgs,
		Example: `linkweave snapshot --input articles.jsonl.zst --out wiki.lwg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, logger, err := buildCorpus(ctx, root, &opts.inputOpts)
			if err != nil {
				return err
			}
			err = writeSnapshot(opts.out, c.Graph())
			logger.LogSnapshot(ctx, opts.out, err)
			return err
		},
	}
	opts.inputOpts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.out, "out", "", "snapshot file to write")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func writeSnapshot(path string, g *graph.Graph) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	w := bufio.NewWriter(f)
	if err := graph.WriteSnapshot(w, g); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}
