package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/pkg/jsonease"
	"github.com/iilei/jsonease/pkg/tree"
)

func newTreeCmd(a *app) *cobra.Command {
	var (
		opts  inputOptions
		depth int
	)
	cmd := &cobra.Command{
		Use:   "tree [file|glob ...]",
		Short: "Print JSON as a collapsible outline",
		Example: `  jsonease tree data.json
  jsonease tree --depth 2 data.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.process(cmd, args, &opts, batch{
				ext: "txt",
				run: func(_ context.Context, in *input) (string, error) {
					v, err := jsonease.Parse(in.Text)
					if err != nil {
						return "", err
					}
					nodes := tree.Build(v)
					tree.ExpandTo(nodes, depth)
					return tree.Render(nodes), nil
				},
			})
		},
	}
	opts.register(cmd)
	opts.registerFrom(cmd)
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "Expand branches up to this depth; negative expands everything")
	return cmd
}
