package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/pkg/generate"
	"github.com/iilei/jsonease/pkg/ingest"
	"github.com/iilei/jsonease/pkg/jsonvalue"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		specs    []string
		count    int
		seed     int64
		download bool
	)
	cmd := &cobra.Command{
		Use:   "generate --field name:type ...",
		Short: "Generate sample JSON records",
		Long: `Generate an array of records with one member per --field.
Types: number, string, boolean, uuid, name, email (default string).`,
		Example: `  jsonease generate -f id:uuid -f name:name -f email:email --count 3
  jsonease generate -f score:number --seed 42 --download`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := make([]generate.Field, 0, len(specs))
			for _, s := range specs {
				f, err := generate.ParseField(s)
				if err != nil {
					return err
				}
				fields = append(fields, f)
			}

			var g *generate.Generator
			if cmd.Flags().Changed("seed") {
				g = generate.NewSeeded(seed)
			} else {
				g = generate.New(nil)
			}

			v, err := g.Generate(fields, count)
			if err != nil {
				newReporter(cmd.ErrOrStderr()).report("generate", "", err)
				return &failure{count: 1}
			}
			out := jsonvalue.Marshal(v, a.cfg.IndentPolicy())

			if !download {
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			path, err := ingest.WriteArtifact(a.cfg.OutputDir, ingest.ArtifactName("jsonease-generated", "json", time.Now()), out)
			if err != nil {
				return err
			}
			newReporter(cmd.ErrOrStderr()).note("generate", "saved to "+path)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&specs, "field", "f", nil, "Field as name:type (repeatable)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of records")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible output")
	cmd.Flags().BoolVar(&download, "download", false, "Write output to a timestamped file in the output directory")
	return cmd
}
