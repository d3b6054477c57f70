package cli

import (
	"strings"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: strings.TrimSpace(dedent.Dedent(`
			Generate shell completion scripts for astviz.

			Bash:
			  $ source <(astviz completion bash)

			Zsh:
			  $ astviz completion zsh > "${fpath[1]}/_astviz"

			Fish:
			  $ astviz completion fish > ~/.config/fish/completions/astviz.fish

			PowerShell:
			  PS> astviz completion powershell | Out-String | Invoke-Expression`)),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
