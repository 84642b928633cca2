package cli

import (
	"regexp"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh]",
	Short: "Generate shell completion script",
	Long: `Generate a shell completion script for zonectl.

Zone arguments complete from the live zone listing, so completion runs
zoneadm on the host.

Bash:
  zonectl completion bash > /etc/bash/bash_completion.d/zonectl

Zsh:
  zonectl completion zsh > "${fpath[1]}/_zonectl"`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "zsh" {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		}
		return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
	},
}

// zoneArgs completes the first n positional arguments with zone names.
func zoneArgs(n int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completeZoneNames(toComplete)
	}
}

func completeZoneNames(prefix string) ([]string, cobra.ShellCompDirective) {
	m, err := requireManager()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	zones, err := m.List(regexp.QuoteMeta(prefix))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(zones))
	for _, z := range zones {
		if z.Name() != "global" {
			names = append(names, z.Name())
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
