package cli

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/notify"
	"github.com/matzehuels/astviz/pkg/pipeline"
)

// watchCommand creates the watch command, which follows a language service
// and re-renders every changed document.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		wsURL   string
		format  string
		outDir  string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render documents whenever a language service reports a change",
		Long: `Connect to a language service's notification socket and write one
artifact per document each time it changes. Every change carries the full
serialized AST and is rendered from scratch.`,
		Example: `  astviz watch --url ws://localhost:3000/notify -f svg -o out/`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if wsURL == "" {
				wsURL = c.config().Watch.URL
			}
			if wsURL == "" {
				return errors.New(errors.ErrCodeInvalidInput, "no language service URL: pass --url or set [watch] url")
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sub := &notify.Subscriber{
				URL:     wsURL,
				Handler: c.watchHandler(runner, format, outDir),
				Logger:  c.Logger,
			}
			printInfo("Watching %s", StyleHighlight.Render(wsURL))
			return sub.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&wsURL, "url", "", "language service WebSocket URL (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "artifact format: svg, png, pdf, dot, json")
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")
	return cmd
}

// watchHandler renders each change into outDir, named after the document.
func (c *CLI) watchHandler(runner *pipeline.Runner, format, outDir string) notify.HandlerFunc {
	opts := c.options()
	return func(ctx context.Context, change notify.DocumentChange) error {
		logger := loggerFromContext(ctx)
		if change.HasErrors() {
			printWarning("%s has %d diagnostic(s)", change.URI, len(change.Diagnostics))
		}
		if change.Content == "" {
			logger.Debug("skipping empty document", "uri", change.URI)
			return nil
		}

		data, res, err := renderOnce(ctx, runner, []byte(change.Content), opts, format)
		if err != nil {
			printError("%s: %s", change.URI, errors.UserMessage(err))
			return err
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", outDir)
		}
		out := filepath.Join(outDir, documentName(change.URI)+"."+format)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", out)
		}

		printSuccess("%s", change.URI)
		s := res.Stats
		printStats(s.NodeCount, s.EdgeCount, s.ReferenceCount, s.UnresolvedCount, res.CacheInfo.RenderHit)
		printFile(out)
		return nil
	}
}

// documentName derives an output base name from a document URI, so
// file:///work/traffic.statemachine becomes "traffic".
func documentName(uri string) string {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	name := path.Base(p)
	if ext := path.Ext(name); ext != "" && ext != name {
		name = name[:len(name)-len(ext)]
	}
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}
