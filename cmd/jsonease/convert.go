package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/pkg/convert"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		opts inputOptions
		to   string
	)
	conv := convert.NewService()

	formats := make([]string, 0, len(conv.Formats()))
	for _, f := range conv.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "convert --to FORMAT [file|glob ...]",
		Short: "Convert JSON to CSV, XML, YAML or TOML",
		Example: `  jsonease convert --to csv people.json
  jsonease convert --to yaml --download config.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := convert.ParseFormat(to)
			if err != nil {
				return err
			}
			return a.process(cmd, args, &opts, batch{
				ext: f.Extension(),
				run: func(_ context.Context, in *input) (string, error) {
					return conv.ConvertText(in.Text, f)
				},
			})
		},
	}
	opts.register(cmd)
	opts.registerFrom(cmd)
	cmd.Flags().StringVarP(&to, "to", "t", "", "Target format ("+strings.Join(formats, ", ")+")")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
