package cli

import (
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: heredoc.Doc(`
			Generate shell completion scripts for ratiogrid.

			The script is written to stdout; source it in the current shell or
			install it where your shell loads completions from.
		`),
		Example: heredoc.Doc(`
			# Bash, current session
			source <(ratiogrid completion bash)

			# Zsh, every session
			ratiogrid completion zsh > "${fpath[1]}/_ratiogrid"

			# Fish
			ratiogrid completion fish > ~/.config/fish/completions/ratiogrid.fish

			# PowerShell
			ratiogrid completion powershell | Out-String | Invoke-Expression
		`),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
