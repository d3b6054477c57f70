package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/matzehuels/astviz/internal/config"
	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/buildinfo"
	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/observability"
	"github.com/matzehuels/astviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "astviz"

// stdinArg names standard input wherever a file argument is expected.
const stdinArg = "-"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	plainKeys  bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks report to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.LogHooks{Logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "astviz visualizes serialized Langium ASTs",
		Long: strings.TrimSpace(dedent.Dedent(`
			astviz rebuilds a linked syntax tree from a serialized Langium AST
			(the JSON a language server emits, with $type and $ref markers) and
			projects it as a node-link graph, a tree-map, or a rendered diagram.

			Every command that takes a file also reads "-" as standard input.`)),
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.plainKeys {
				cfg.AST = ast.PlainKeys
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&c.plainKeys, "plain", false, "read the unprefixed wire format (type, ref-path)")

	// Register all subcommands
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.treemapCommand())
	root.AddCommand(c.refsCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// config returns the loaded configuration, or the defaults when a command
// runs without the root's pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// newRunner creates a pipeline runner over the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	var (
		store cache.Cache
		err   error
	)
	if noCache {
		store = cache.NewNullCache()
	} else if store, err = cfg.Cache.OpenCache(ctx); err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.ArtifactTTL = cfg.Cache.TTL
	return runner, nil
}

// options returns pipeline options seeded from the configuration.
func (c *CLI) options() pipeline.Options {
	cfg := c.config()
	return pipeline.Options{
		Formats: cfg.Render.Formats,
		Scale:   cfg.Render.Scale,
		Keys:    cfg.AST,
		Logger:  c.Logger,
	}
}

// =============================================================================
// Input Helpers
// =============================================================================

// readInput reads a file argument, treating "-" as stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// loadAST reads and decodes a file argument with the configured keys.
func (c *CLI) loadAST(cmd *cobra.Command, path string) (*ast.Node, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return ast.DeserializeWithKeys(data, c.config().AST)
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string selects the configured defaults.
func (c *CLI) parseFormats(s string) []string {
	if formats := config.SplitList(s); len(formats) > 0 {
		return formats
	}
	return c.config().Render.Formats
}
