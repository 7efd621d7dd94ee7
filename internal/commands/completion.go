package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCompletionCmd creates the completion command group.
func NewCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pmq.

To load completions:

Bash:
  $ source <(pmq completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pmq completion bash > /etc/bash_completion.d/pmq
  # macOS:
  $ pmq completion bash > $(brew --prefix)/etc/bash_completion.d/pmq

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pmq completion zsh > "${fpath[1]}/_pmq"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pmq completion fish | source

  # To load completions for each session, execute once:
  $ pmq completion fish > ~/.config/fish/completions/pmq.fish

PowerShell:
  PS> pmq completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pmq completion powershell > pmq.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runCompletion(cmd.Root(), cmdArgs[0])
		},
	}

	return cmd
}

func runCompletion(rootCmd *cobra.Command, shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	case "zsh":
		return rootCmd.GenZshCompletion(os.Stdout)
	case "fish":
		return rootCmd.GenFishCompletion(os.Stdout, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unknown shell: %s", shell)
	}
}
