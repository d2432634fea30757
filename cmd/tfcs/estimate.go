package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meigma/tfcs"
)

func newEstimateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate [flags] file...",
		Short: "Print how much room each file needs for its patch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return estimate(cmd.OutOrStdout(), g, g.newPatcher(cfg), args)
		},
	}
}

func estimate(w io.Writer, g *globalOptions, p *tfcs.Patcher, files []string) error {
	stack := g.newStack()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tPATCH\tEXTRA\tSUBTITLES")
	for _, path := range files {
		name, err := g.gameFileName(path)
		if err != nil {
			return err
		}
		_, size, err := stack.Resolve(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", name, size,
			p.EstimateSize(name, nil, size), p.EstimateSubtitlesSize(name))
	}
	return tw.Flush()
}
