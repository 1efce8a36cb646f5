package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for placer.

To load completions:

Bash:
  $ source <(placer completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ placer completion bash > /etc/bash_completion.d/placer
  # macOS:
  $ placer completion bash > $(brew --prefix)/etc/bash_completion.d/placer

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ placer completion zsh > "${fpath[1]}/_placer"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ placer completion fish | source

  # To load completions for each session, execute once:
  $ placer completion fish > ~/.config/fish/completions/placer.fish

PowerShell:
  PS> placer completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> placer completion powershell > placer.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}

// completeSolverNames offers the registered solver names as the first
// argument of solver commands.
func (c *CLI) completeSolverNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	reg, err := c.newRegistry(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return reg.Names(), cobra.ShellCompDirectiveNoFileComp
}
