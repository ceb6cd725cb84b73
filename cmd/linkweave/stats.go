package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type statsOpts struct {
	inputOpts
	top int
}

func newStatsCmd(root *rootOpts) *cobra.Command {
	opts := &statsOpts{}
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Print graph statistics and the most linked documents",
		Args:    cobra.NoArgs,
		Example: `linkweave stats --input articles.jsonl.zst --redirects redirects.jsonl.zst --top 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := buildCorpus(cmd.Context(), root, &opts.inputOpts)
			if err != nil {
				return err
			}
			g := c.Graph()
			st := g.Stats()
			gr := c.GraphReport()
			tr := c.TitleReport()

			table := newTable(cmd, "metric", "value")
			table.AppendBulk([][]string{
				{"documents", strconv.Itoa(st.Nodes)},
				{"edges", strconv.Itoa(st.Edges)},
				{"leaves", strconv.Itoa(st.Leaves)},
				{"isolated", strconv.Itoa(st.Isolated)},
				{"mean out-degree", fmt.Sprintf("%.2f", st.MeanOutDegree)},
				{"max in-degree", strconv.Itoa(st.MaxInDegree)},
				{"max out-degree", strconv.Itoa(st.MaxOutDegree)},
				{"aliases", strconv.Itoa(tr.Aliases)},
				{"title collisions", strconv.Itoa(len(tr.Collisions))},
				{"dangling links", strconv.Itoa(gr.DanglingLinks)},
				{"self loops", strconv.Itoa(gr.SelfLoops)},
				{"duplicate links", strconv.Itoa(gr.DuplicateLinks)},
			})
			table.Render()

			if opts.top > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
				hubs := newTable(cmd, "id", "in-degree", "title")
				for _, id := range g.TopByInDegree(opts.top) {
					title, _ := c.Index().Title(id)
					hubs.Append([]string{id.String(), strconv.Itoa(g.InDegree(id)), title})
				}
				hubs.Render()
			}
			return nil
		},
	}
	opts.inputOpts.addFlags(cmd)
	cmd.Flags().IntVar(&opts.top, "top", 10, "number of hub documents to list")
	return cmd
}

func newTable(cmd *cobra.Command, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}
