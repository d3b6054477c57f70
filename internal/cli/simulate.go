package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/statemachine"
)

// simulateCommand creates the simulate command, which steps through a
// state-machine AST.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		events  string
		program bool
	)
	cmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "Step through a state-machine AST",
		Long: `Step through a state-machine AST interactively.

Without a file the bundled TrafficLight machine is used; --program prints
its source. With --events the events are fired in order and the visited
states printed, without the interactive view.`,
		Example: `  astviz simulate
  astviz simulate machine.json --events switchCapacity,next,next`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if program {
				return writeOutput(cmd, "", []byte(statemachine.DefaultProgram))
			}

			var (
				root *ast.Node
				err  error
			)
			if len(args) == 1 {
				root, err = c.loadAST(cmd, args[0])
			} else {
				root, err = ast.Deserialize(statemachine.TrafficLightAST)
			}
			if err != nil {
				return err
			}
			m, err := statemachine.New(root)
			if err != nil {
				return err
			}

			if events != "" {
				return runEvents(cmd, m, events)
			}

			p := tea.NewProgram(NewSimulatorModel(m),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&events, "events", "", "fire these events (comma-separated) and print the visited states")
	cmd.Flags().BoolVar(&program, "program", false, "print the source of the bundled TrafficLight machine")
	return cmd
}

// runEvents fires the named events and prints one visited state per line.
func runEvents(cmd *cobra.Command, m *statemachine.Machine, events string) error {
	var names []string
	for _, e := range strings.Split(events, ",") {
		if e = strings.TrimSpace(e); e != "" {
			names = append(names, e)
		}
	}
	visited, err := m.Run(names...)
	out := cmd.OutOrStdout()
	for _, s := range visited {
		fmt.Fprintln(out, s)
	}
	return err
}
