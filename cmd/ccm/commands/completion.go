package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/ccm/internal/config"
)

func NewCompletionCommand(_ *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for ccm.

Completions cover subcommands, flags and stored profile names, so
"ccm env <TAB>" or "ccm run <TAB>" lists your profiles.

  bash:  source <(ccm completion bash)
  zsh:   ccm completion zsh > "${fpath[1]}/_ccm"   (needs compinit)
  fish:  ccm completion fish | source
  pwsh:  ccm completion powershell | Out-String | Invoke-Expression
`,
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

	return cmd
}
