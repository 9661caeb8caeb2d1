package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/internal/log"
	"github.com/iilei/jsonease/pkg/jsonease"
)

func newRepairCmd(a *app) *cobra.Command {
	var (
		opts  inputOptions
		write bool
	)
	cmd := &cobra.Command{
		Use:   "repair [file|glob ...]",
		Short: "Recover near-miss JSON (trailing commas, single quotes, comments)",
		Example: `  echo "{'a': 1,}" | jsonease repair
  jsonease repair --write "fixtures/*.json"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && opts.download {
				return fmt.Errorf("--write cannot be used with --download")
			}
			return a.process(cmd, args, &opts, batch{
				ext:   "txt",
				quiet: write,
				run: func(_ context.Context, in *input) (string, error) {
					res, err := a.svc.Repair(in.Text)
					if err != nil {
						return "", err
					}
					log.Default.Debugw("repaired", "input", in.Name, "parser", res.Parser, "steps", stepSummary(res.Steps))
					if !write {
						return res.Text, nil
					}
					return writeBack(in, res)
				},
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite files in place instead of printing the result")
	return cmd
}

// writeBack replaces the file behind in with the repaired text.
func writeBack(in *input, res *jsonease.RepairResult) (string, error) {
	if in.Path == "" {
		return "", fmt.Errorf("--write needs a file input")
	}
	if strings.TrimRight(in.Text, "\n") == res.Text {
		return in.Name + ": unchanged", nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(in.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(in.Path, []byte(res.Text+"\n"), mode); err != nil {
		return "", fmt.Errorf("writing %s: %w", in.Path, err)
	}
	return fmt.Sprintf("%s: repaired (%s)", in.Name, stepSummary(res.Steps)), nil
}

// stepSummary lists the heuristics that changed the text, or the parser
// that recovered it when none did.
func stepSummary(steps []jsonease.Step) string {
	var changed []string
	for _, s := range steps {
		if s.Status == jsonease.StepChanged {
			changed = append(changed, s.Name)
		}
	}
	if len(changed) == 0 {
		return "reformatted"
	}
	return strings.Join(changed, ", ")
}
