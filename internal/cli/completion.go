package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysview/internal/errors"
)

// newCompletionCmd generates shell completion scripts for root.
func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion scripts for sysview.

Examples:
  # Bash
  sysview completion bash > /etc/bash_completion.d/sysview

  # Zsh
  sysview completion zsh > "${fpath[1]}/_sysview"

  # Fish
  sysview completion fish > ~/.config/fish/completions/sysview.fish`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletion(out)
			default:
				return errors.New(errors.ErrConfig,
					"Unknown shell: "+args[0],
					"Supported shells: bash, zsh, fish, powershell")
			}
		},
	}
}
