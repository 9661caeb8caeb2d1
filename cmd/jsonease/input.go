package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/iilei/jsonease/internal/log"
	"github.com/iilei/jsonease/pkg/ingest"
	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// stdinName labels text read from standard input.
const stdinName = "<stdin>"

// input is one document handed to a command.
type input struct {
	Name string
	// Path is set for local files only.
	Path string
	URL  string
	Text string
}

// inputOptions are the flags shared by commands that read documents.
type inputOptions struct {
	url         string
	download    bool
	concurrency int
	// from is the source grammar; anything but json is converted to JSON
	// text before the command sees it.
	from string
}

func (o *inputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.url, "url", "", "Load the document from a URL instead of files or stdin")
	cmd.Flags().BoolVar(&o.download, "download", false, "Write output to a timestamped file in the output directory")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "j", runtime.NumCPU(), "Maximum number of files processed in parallel")
}

// registerFrom adds --from to commands that can read other grammars.
func (o *inputOptions) registerFrom(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.from, "from", string(jsonvalue.FileTypeJSON), "Input type: json, json5, yaml, toml or auto (by extension, else by content)")
}

// sourceType validates --from. Commands without the flag read JSON.
func (o *inputOptions) sourceType() (jsonvalue.FileType, error) {
	if o.from == "" {
		return jsonvalue.FileTypeJSON, nil
	}
	return jsonvalue.ParseFileType(o.from)
}

// batch describes how a command processes each input.
type batch struct {
	// ext is the artifact extension used by --download.
	ext string
	// quiet suppresses per-input headers when several inputs are processed.
	quiet bool
	run   func(ctx context.Context, in *input) (string, error)
}

type outcome struct {
	in     *input
	output string
	err    error
}

// resolveInputs expands positional arguments into inputs. Arguments holding
// glob meta characters are matched with doublestar ("**" crosses
// directories); no argument at all means --url or standard input.
func resolveInputs(cmd *cobra.Command, args []string, opts *inputOptions) ([]*input, error) {
	if opts.url != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--url cannot be combined with file arguments")
		}
		return []*input{{Name: opts.url, URL: opts.url}}, nil
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		stdin := cmd.InOrStdin()
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("no input: pass files, --url, or pipe JSON on stdin")
		}
		text, err := ingest.LoadReader(stdin)
		if err != nil {
			return nil, err
		}
		return []*input{{Name: stdinName, Text: text}}, nil
	}

	var inputs []*input
	seen := make(map[string]bool)
	for _, arg := range args {
		paths := []string{arg}
		if strings.ContainsAny(arg, "*?[{") {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
			sort.Strings(matches)
			paths = matches
		}
		for _, p := range paths {
			if seen[p] {
				continue
			}
			seen[p] = true
			inputs = append(inputs, &input{Name: p, Path: p})
		}
	}
	return inputs, nil
}

// load reads the text of in unless it was already read from stdin, then
// converts it to JSON text when ft is another grammar.
func (a *app) load(ctx context.Context, in *input, ft jsonvalue.FileType) error {
	if err := a.read(ctx, in); err != nil {
		return err
	}
	if ft == jsonvalue.FileTypeAuto && in.Path != "" {
		ft = jsonvalue.DetectFileType(in.Path)
	}
	// Strict JSON keeps its own diagnostics further down the pipeline.
	if ft == jsonvalue.FileTypeJSON {
		return nil
	}

	v, err := jsonvalue.ParseData([]byte(in.Text), ft)
	if err != nil {
		return err
	}
	in.Text = jsonvalue.Marshal(v, a.cfg.IndentPolicy())
	return nil
}

func (a *app) read(ctx context.Context, in *input) error {
	switch {
	case in.Path != "":
		text, err := ingest.LoadFile(in.Path)
		if err != nil {
			return err
		}
		in.Text = text
	case in.URL != "":
		fetcher := ingest.NewFetcher(ingest.FetchOptions{
			Retries: a.cfg.Fetch.Retries,
			Timeout: a.cfg.Fetch.Timeout,
			Logger:  log.Retry{L: log.Default},
		})
		text, err := fetcher.Load(ctx, in.URL)
		if err != nil {
			return err
		}
		in.Text = text
	}
	return nil
}

// process runs b over every input, at most opts.concurrency at a time, then
// reports results in argument order. Failed inputs are reported on stderr
// and turn into a *failure; usage problems are returned as plain errors.
func (a *app) process(cmd *cobra.Command, args []string, opts *inputOptions, b batch) error {
	ft, err := opts.sourceType()
	if err != nil {
		return err
	}
	inputs, err := resolveInputs(cmd, args, opts)
	if err != nil {
		return err
	}

	outcomes := make([]outcome, len(inputs))
	g, ctx := errgroup.WithContext(cmd.Context())
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}
	for i, in := range inputs {
		g.Go(func() error {
			outcomes[i].in = in
			if err := a.load(ctx, in, ft); err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].output, outcomes[i].err = b.run(ctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rep := newReporter(cmd.ErrOrStderr())
	failed := 0
	now := time.Now()
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			rep.report(o.in.Name, o.in.Text, o.err)
			continue
		}
		if opts.download && b.ext != "" {
			path, err := ingest.WriteArtifact(a.cfg.OutputDir, artifactName(o.in, len(inputs), b.ext, now), o.output)
			if err != nil {
				failed++
				rep.report(o.in.Name, "", err)
				continue
			}
			rep.note(o.in.Name, "saved to "+path)
			continue
		}
		writeOutput(out, o, len(inputs) > 1 && !b.quiet)
	}

	log.Default.Debugw("batch finished", "inputs", len(inputs), "failed", failed)
	if failed > 0 {
		return &failure{count: failed}
	}
	return nil
}

func writeOutput(w io.Writer, o outcome, header bool) {
	if header {
		fmt.Fprintf(w, "==> %s <==\n", o.in.Name)
	}
	if out := strings.TrimRight(o.output, "\n"); out != "" {
		fmt.Fprintln(w, out)
	}
}

// artifactName keeps single-input downloads at jsonease-<ts>.<ext> and adds
// the file stem when a batch would otherwise collide.
func artifactName(in *input, total int, ext string, now time.Time) string {
	prefix := "jsonease"
	if total > 1 && in.Path != "" {
		stem := strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path))
		prefix += "-" + stem
	}
	return ingest.ArtifactName(prefix, ext, now)
}
