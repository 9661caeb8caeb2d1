package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newFormatCmd(a *app) *cobra.Command {
	var opts inputOptions
	cmd := &cobra.Command{
		Use:   "format [file|glob ...]",
		Short: "Pretty-print JSON with the configured indentation",
		Example: `  jsonease format data.json
  jsonease format --indent tab "configs/**/*.json"
  curl -s https://example.com/data.json | jsonease format
  jsonease format --url https://example.com/data.json --download`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.process(cmd, args, &opts, batch{
				ext: "txt",
				run: func(_ context.Context, in *input) (string, error) {
					return a.svc.Format(in.Text)
				},
			})
		},
	}
	opts.register(cmd)
	opts.registerFrom(cmd)
	return cmd
}

func newMinifyCmd(a *app) *cobra.Command {
	var opts inputOptions
	cmd := &cobra.Command{
		Use:   "minify [file|glob ...]",
		Short: "Remove insignificant whitespace from JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.process(cmd, args, &opts, batch{
				ext: "txt",
				run: func(_ context.Context, in *input) (string, error) {
					return a.svc.Minify(in.Text)
				},
			})
		},
	}
	opts.register(cmd)
	opts.registerFrom(cmd)
	return cmd
}
