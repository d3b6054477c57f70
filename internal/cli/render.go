package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single file, single format) or directory
	formats []string // output formats: svg, png, pdf, dot, json
	scale   float64  // PNG scale factor; zero uses the configured scale
	noCache bool     // bypass the artifact cache
	refresh bool     // recompute and overwrite cached artifacts
	jobs    int      // files rendered concurrently
}

// renderCommand creates the render command for writing artifacts.
//
// Each input produces one file per format next to the input (or in --output
// when it names a directory). Inputs are rendered concurrently.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render ASTs to SVG, PNG, PDF, DOT, or JSON",
		Example: `  astviz render machine.json
  astviz render -f svg,png --scale 3 machine.json
  astviz render -f pdf -o out/ *.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.scale < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "invalid scale: %g", opts.scale)
			}
			return c.runRender(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one input, one format) or directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, pdf, dot, json (comma-separated; default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files rendered concurrently")

	return cmd
}

// renderResult summarizes one rendered input.
type renderResult struct {
	input  string
	paths  []string
	result *pipeline.Result
}

// runRender renders every input and reports the files written.
func (c *CLI) runRender(cmd *cobra.Command, inputs []string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.options()
	popts.Formats = opts.formats
	popts.Refresh = opts.refresh
	if opts.scale > 0 {
		popts.Scale = opts.scale
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d file(s)", len(inputs)))
	spinner.Start()

	results := make([]renderResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			res, err := runner.Execute(gctx, data, popts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			paths, err := writeArtifacts(input, res, opts, len(inputs))
			if err != nil {
				return err
			}
			results[i] = renderResult{input: input, paths: paths, result: res}
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	for _, r := range results {
		printSuccess("%s", r.input)
		s := r.result.Stats
		printStats(s.NodeCount, s.EdgeCount, s.ReferenceCount, s.UnresolvedCount, r.result.CacheInfo.RenderHit)
		for _, p := range r.paths {
			printFile(p)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(inputs)))
	return nil
}

// writeArtifacts writes each artifact of res and returns the paths written.
func writeArtifacts(input string, res *pipeline.Result, opts *renderOpts, inputCount int) ([]string, error) {
	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, inputCount == 1 && len(opts.formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives where one artifact goes.
//
// With single set (one input, one format) a non-directory --output is used
// verbatim. Otherwise --output names a directory, and the file is the input's
// base name with the format as extension. Stdin renders as "ast".
func outputPath(output, input, format string, single bool) string {
	if single && output != "" && !isDirPath(output) {
		return output
	}
	name := "ast"
	dir := ""
	if input != stdinArg {
		name = basePath(filepath.Base(input))
		dir = filepath.Dir(input)
	}
	if output != "" {
		dir = output
	}
	return filepath.Join(dir, name+"."+format)
}

// basePath strips the input's extensions, so both machine.json and
// machine.ast.json become machine.
func basePath(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, ".ast")
}

// isDirPath reports whether path names a directory, either existing or
// written with a trailing separator.
func isDirPath(path string) bool {
	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// renderOnce renders one AST to a single format. The watch command uses it.
func renderOnce(ctx context.Context, runner *pipeline.Runner, data []byte, opts pipeline.Options, format string) ([]byte, *pipeline.Result, error) {
	opts.Formats = []string{format}
	res, err := runner.Execute(ctx, data, opts)
	if err != nil {
		return nil, nil, err
	}
	return res.Artifacts[format], res, nil
}
