package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/pipeline"
	"github.com/matzehuels/astviz/pkg/treemap"
)

// Tree-map output formats.
const (
	treemapJSON = "json"
	treemapYAML = "yaml"
	treemapText = "text"
)

// dotCommand creates the dot command, which prints the Graphviz source.
func (c *CLI) dotCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Print the node-link graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProjection(cmd, args[0], pipeline.ProjectionDOT, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// graphCommand creates the graph command, which prints the node-link JSON.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Print the node-link graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := pipeline.ProjectionGraph
			if force {
				kind = pipeline.ProjectionForceGraph
			}
			return c.runProjection(cmd, args[0], kind, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "emit the force-graph shape ({nodes, links})")
	return cmd
}

// treemapCommand creates the treemap command.
func (c *CLI) treemapCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "treemap <file>",
		Short: "Print the containment tree-map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.loadAST(cmd, args[0])
			if err != nil {
				return err
			}
			tm := treemap.FromAST(root)

			var data []byte
			switch format {
			case treemapJSON:
				data, err = treemap.MarshalJSON(tm)
			case treemapYAML:
				data, err = treemap.MarshalYAML(tm)
			case treemapText:
				var buf bytes.Buffer
				err = treemap.WriteText(&buf, tm)
				data = buf.Bytes()
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid treemap format: %q (must be one of: json, yaml, text)", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", treemapText, "output format: text, json, yaml")
	return cmd
}

// refsCommand creates the refs command.
func (c *CLI) refsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "refs <file>",
		Short: "List cross-references and their targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.loadAST(cmd, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(pipeline.Refs(root), "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", data)
			}

			out := cmd.OutOrStdout()
			for _, r := range ast.CollectReferences(root) {
				target := styleDangling.Render("unresolved")
				if r.Resolved() {
					target = r.Ref.Type
					if name, ok := r.Ref.String("name"); ok {
						target += " " + StyleHighlight.Render(name)
					}
				}
				fmt.Fprintf(out, "%s %s %s\n", r.Path, StyleDim.Render(iconArrow), target)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of lines")
	return cmd
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file> <path>",
		Short: "Print the node a reference path points to",
		Example: `  astviz resolve machine.json '#/states@1'
  astviz resolve machine.json '#/states@1/transitions@0'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[1]
			if err := errors.ValidateRefPath(path); err != nil {
				return err
			}
			root, err := c.loadAST(cmd, args[0])
			if err != nil {
				return err
			}
			n := ast.Resolve(root, path)
			if n == nil {
				return errors.New(errors.ErrCodeNotFound, "no node at %s", path)
			}
			data, err := json.MarshalIndent(pipeline.Summarize(n), "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, "", data)
		},
	}
}

// runProjection decodes a file and writes one projection of it.
func (c *CLI) runProjection(cmd *cobra.Command, input, kind, output string) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	root, err := c.loadAST(cmd, input)
	if err != nil {
		return err
	}
	data, err := pipeline.Project(root, kind)
	if err != nil {
		return err
	}
	if output != "" {
		defer prog.done(fmt.Sprintf("Projected %s as %s", input, kind))
	}
	return writeOutput(cmd, output, data)
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty. Stdout output always ends with a newline.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if !strings.HasSuffix(string(data), "\n") {
			_, err := fmt.Fprintln(out)
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	printFile(path)
	return nil
}
