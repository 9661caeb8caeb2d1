package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iilei/jsonease/internal/log"
	"github.com/iilei/jsonease/pkg/config"
	"github.com/iilei/jsonease/pkg/jsonease"
)

const (
	ExitSuccess        = 0
	ExitValidationFail = 1
	ExitUsageError     = 2
)

var version = "dev" // Set by goreleaser

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries the state shared by all commands of one invocation.
type app struct {
	configFile string
	envPrefix  string

	cfg *config.Config
	svc *jsonease.Service
}

// failure is returned by commands whose inputs failed after being reported.
type failure struct {
	count int
}

func (f *failure) Error() string {
	return fmt.Sprintf("%d input(s) failed", f.count)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var f *failure
	if errors.As(err, &f) {
		return ExitValidationFail
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitUsageError
}

func newRootCmd(a *app) *cobra.Command {
	defaults := config.NewConfig()

	root := &cobra.Command{
		Use:   "jsonease",
		Short: "Format, repair, validate and convert JSON",
		Long: `jsonease formats, minifies and validates JSON, repairs near-miss JSON
(trailing commas, single quotes, comments), converts it to CSV, XML, YAML or
TOML, prints it as a tree and generates sample data.

Settings are read from, lowest to highest priority: defaults,
pyproject.toml [tool.jsonease], .jsonease.{yaml,yml,toml,json} (or --config),
JSONEASE_* environment variables (and .env), command-line flags.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadSettings,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "Path to settings file (.yaml, .toml, or .json)")
	pf.StringVar(&a.envPrefix, "env-prefix", config.DefaultEnvPrefix, "Environment variable prefix (must end with underscore)")
	pf.String("indent", defaults.Indent, "Indentation: 1-10 spaces or \"tab\"")
	pf.Bool("auto-repair", defaults.AutoRepair, "Repair input automatically when strict parsing fails")
	pf.String("output-dir", defaults.OutputDir, "Directory for --download artifacts")
	pf.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	pf.Bool("no-color", defaults.NoColor, "Disable colored diagnostics")
	pf.Int("fetch-retries", defaults.Fetch.Retries, "Retries for --url")
	pf.Duration("fetch-timeout", defaults.Fetch.Timeout, "Timeout for --url")

	root.AddCommand(
		newFormatCmd(a),
		newMinifyCmd(a),
		newValidateCmd(a),
		newRepairCmd(a),
		newConvertCmd(a),
		newTreeCmd(a),
		newGenerateCmd(a),
		newServeCmd(a),
		newSettingsCmd(a),
	)
	return root
}

// loadSettings resolves the effective settings before any command runs.
func (a *app) loadSettings(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader()

	if a.envPrefix != "" {
		prefix := a.envPrefix
		if !strings.HasSuffix(prefix, "_") {
			prefix += "_"
		}
		loader.SetEnvPrefix(prefix)
	}
	if a.configFile != "" {
		loader.SetConfigFile(a.configFile)
	}

	cfg, err := loader.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Configure(cfg.LogLevel, cfg.NoColor)
	if cfg.NoColor {
		color.NoColor = true
	}

	a.cfg = cfg
	a.svc = jsonease.NewService(cfg.IndentPolicy(), cfg.AutoRepair)
	log.Default.Debugw("settings loaded", "indent", cfg.Indent, "auto_repair", cfg.AutoRepair)
	return nil
}
