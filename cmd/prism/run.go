package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/prism/internal/astjson"
	"github.com/orizon-lang/prism/internal/cli"
	"github.com/orizon-lang/prism/internal/format"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sanitizer"
	"github.com/orizon-lang/prism/internal/transform"
)

// errSanitizeFailed is returned when at least one backend failed. The
// diagnostics have already been printed.
var errSanitizeFailed = stderrors.New("one or more backends failed")

type runner struct {
	input      string
	configPath string
	outDir     string
	backends   []sanitizer.Backend
	dump       bool
	diff       bool
	// seed < 0 disables shuffling.
	seed        int64
	concurrency int
	color       bool

	logger *cli.Logger
	stdout io.Writer
	stderr io.Writer
}

type outcome struct {
	result *sanitizer.Result
	err    error
}

func (r *runner) run(ctx context.Context) error {
	prog, err := r.load()
	if err != nil {
		return err
	}

	opts := sanitizer.Options{}
	if r.configPath != "" {
		opts, err = sanitizer.LoadOptions(r.configPath)
		if err != nil {
			return err
		}
	}

	outcomes, err := r.sanitize(ctx, prog, opts)
	if err != nil {
		return err
	}

	return r.report(prog, outcomes)
}

func (r *runner) load() (*program.Program, error) {
	f, err := os.Open(r.input)
	if err != nil {
		return nil, fmt.Errorf("open module: %w", err)
	}
	defer f.Close()

	prog, err := astjson.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.input, err)
	}
	if !prog.IsValid() {
		_ = prog.Diagnostics().Render(r.stderr, r.color)
		return nil, fmt.Errorf("%s: invalid module", r.input)
	}
	r.logger.Debug("loaded %s: %d declarations", r.input, len(prog.Globals()))

	if r.seed < 0 {
		return prog, nil
	}

	data := transform.NewDataMap()
	transform.Add(data, transform.ShuffleConfig{Seed: uint64(r.seed)})
	out := transform.NewManager(transform.NewShuffle()).WithLogger(r.logger).Run(prog, data)
	if !out.Program.IsValid() {
		_ = out.Program.Diagnostics().Render(r.stderr, r.color)
		return nil, fmt.Errorf("%s: shuffle failed", r.input)
	}
	return out.Program, nil
}

// sanitize runs one sanitizer per backend with at most r.concurrency in
// flight. Outcomes are returned in backend order.
func (r *runner) sanitize(ctx context.Context, prog *program.Program, opts sanitizer.Options) ([]outcome, error) {
	limit := r.concurrency
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	outcomes := make([]outcome, len(r.backends))
	g, gctx := errgroup.WithContext(ctx)

	for i, backend := range r.backends {
		i, backend := i, backend

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			o := opts
			o.Backend = backend
			o.Logger = r.logger

			r.logger.Info("sanitizing for %s", backend)
			res, err := sanitizer.Sanitize(prog, o)
			outcomes[i] = outcome{result: res, err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *runner) report(input *program.Program, outcomes []outcome) error {
	failed := false

	for i, o := range outcomes {
		backend := r.backends[i]

		if o.err != nil {
			failed = true
			var serr *sanitizer.Error
			if stderrors.As(o.err, &serr) {
				fmt.Fprintf(r.stderr, "%s:\n", backend)
				_ = serr.Diagnostics.Render(r.stderr, r.color)
			} else {
				r.logger.Error("%s: %v", backend, o.err)
			}
			continue
		}

		res := o.result
		names := make([]string, len(res.EntryPoints))
		for j, ep := range res.EntryPoints {
			names[j] = ep.Name
		}
		r.logger.Info("%s: entry points [%s]", backend, strings.Join(names, ", "))

		if r.dump {
			fmt.Fprintf(r.stdout, "// %s\n", backend)
			if res.Header != "" {
				fmt.Fprintln(r.stdout, res.Header)
			}
			fmt.Fprint(r.stdout, format.Program(res.Program))
		}

		if r.diff {
			name := fmt.Sprintf("%s:%s", filepath.Base(r.input), backend)
			fmt.Fprint(r.stdout, format.ProgramDiff(name, input, res.Program, format.DefaultDiffOptions()))
		}

		if r.outDir != "" {
			path, err := r.write(backend, res.Program)
			if err != nil {
				return err
			}
			r.logger.Info("wrote %s", path)
		}
	}

	if failed {
		return errSanitizeFailed
	}
	return nil
}

func (r *runner) write(backend sanitizer.Backend, prog *program.Program) (string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := astjson.Marshal(prog)
	if err != nil {
		return "", fmt.Errorf("encode %s module: %w", backend, err)
	}

	stem := strings.TrimSuffix(filepath.Base(r.input), filepath.Ext(r.input))
	path := filepath.Join(r.outDir, fmt.Sprintf("%s.%s.json", stem, backend))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
