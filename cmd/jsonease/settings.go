package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(a *app) *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the effective settings, or save them to a file",
		Example: `  jsonease settings
  jsonease --indent tab --auto-repair settings --save .jsonease.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if save != "" {
				if err := a.cfg.Save(save); err != nil {
					return err
				}
				newReporter(cmd.ErrOrStderr()).note("settings", "saved to "+save)
				return nil
			}

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("encoding settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the effective settings as YAML to this path")
	return cmd
}
