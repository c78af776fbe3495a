package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sdkorder.

To load completions:

Bash:
  $ source <(sdkorder completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sdkorder completion bash > /etc/bash_completion.d/sdkorder
  # macOS:
  $ sdkorder completion bash > $(brew --prefix)/etc/bash_completion.d/sdkorder

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sdkorder completion zsh > "${fpath[1]}/_sdkorder"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sdkorder completion fish | source

  # To load completions for each session, execute once:
  $ sdkorder completion fish > ~/.config/fish/completions/sdkorder.fish

PowerShell:
  PS> sdkorder completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sdkorder completion powershell > sdkorder.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeManifest limits file completion to manifest extensions.
func completeManifest(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}
