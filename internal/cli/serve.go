package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/astviz/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Endpoints take a serialized AST as the POST body:

  POST /api/v1/graph      force-graph JSON (?kind=graph for node-link)
  POST /api/v1/treemap    tree-map (?format=json|yaml|text)
  POST /api/v1/dot        Graphviz DOT
  POST /api/v1/render     artifact (?format=svg|png|pdf|dot|json&scale=2)
  POST /api/v1/refs       cross-references
  POST /api/v1/resolve    node at ?path=#/...
  GET  /api/v1/live       WebSocket live projection

The cache backend comes from the [cache] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config().Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := c.config()
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printKeyValue("cache", cfg.Cache.Backend)
			printKeyValue("keys", cfg.AST.Type+" / "+cfg.AST.Ref)

			srv := server.New(runner, c.options(), c.Logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
