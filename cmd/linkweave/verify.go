package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/linkweave/shard"
)

func newVerifyCmd(_ *rootOpts) *cobra.Command {
	var (
		location     string
		allowForward bool
	)
	cmd := &cobra.Command{
		Use:     "verify",
		Short:   "Check the shards and references of a committed output",
		Args:    cobra.NoArgs,
		Example: `linkweave verify --output ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := parseOutput(location)
			if err != nil {
				return err
			}
			store, err := openStore(ctx, out, "")
			if err != nil {
				return err
			}
			m, rep, err := shard.Verify(ctx, store)
			if m == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d shards, %d broken, %d documents, %d dangling references, %d forward references\n",
				m.RunID, rep.Shards, rep.BrokenShards, rep.Documents, rep.DanglingReferences, rep.ForwardReferences)
			if err != nil {
				return err
			}
			if rep.DanglingReferences > 0 {
				return fmt.Errorf("%d dangling references", rep.DanglingReferences)
			}
			if rep.ForwardReferences > 0 && !allowForward {
				return fmt.Errorf("%d forward references (use --allow-forward for output_set runs)", rep.ForwardReferences)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&location, "output", "o", "", "output directory, s3://bucket/prefix or minio://bucket/prefix")
	cmd.Flags().BoolVar(&allowForward, "allow-forward", false, "accept references to later documents")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
