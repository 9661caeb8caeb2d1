package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/pkg/jsonease"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		opts       inputOptions
		schemaPath string
	)
	cmd := &cobra.Command{
		Use:   "validate [file|glob ...]",
		Short: "Check that documents are strict JSON, optionally against a JSON Schema",
		Example: `  jsonease validate data.json
  jsonease validate -s schema.json "**/*.json"
  jsonease validate -s schema.json --error-template simple doc.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			check := func(text string) error { return a.svc.Validate(text) }

			if schemaPath != "" {
				schema, err := jsonease.LoadSchemaFile(schemaPath)
				if err != nil {
					return fmt.Errorf("failed to read schema %q: %w", schemaPath, err)
				}
				schemaOpts := jsonease.SchemaOptions{
					Version:    a.cfg.GetEffectiveSchemaVersion(""),
					Template:   a.cfg.GetEffectiveErrorTemplate(""),
					SchemaName: schemaPath,
				}
				if _, err := jsonease.DraftForVersion(schemaOpts.Version); err != nil {
					return err
				}
				check = func(text string) error {
					return jsonease.ValidateSchemaValue(text, schema, schemaOpts)
				}
			}

			return a.process(cmd, args, &opts, batch{
				quiet: true,
				run: func(_ context.Context, in *input) (string, error) {
					if err := check(in.Text); err != nil {
						return "", err
					}
					return valid(in.Name), nil
				},
			})
		},
	}
	opts.register(cmd)
	opts.registerFrom(cmd)
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Path to a JSON Schema file (JSON, JSON5, JSONC, YAML or TOML)")
	cmd.Flags().String("schema-version", "", "JSON Schema version (draft/2020-12, draft/2019-09, draft-07, draft-06, draft-04)")
	cmd.Flags().StringP("error-template", "e", "", "Template name (simple, detailed, with_path, ...) or Go template for schema errors")
	return cmd
}
