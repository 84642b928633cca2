package cli

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/internal/zone"
)

var execUser string

var execCmd = &cobra.Command{
	Use:   "exec <zone> [--user <user>] -- <command>...",
	Short: "Run a command inside a running zone",
	Long: `Run a command inside a running zone via zlogin.

The command words are shell-quoted and joined into a single argument for
zlogin, so each word reaches the zone's login shell intact. Without
--user the command runs as root.

Examples:
  zonectl exec web01 -- uptime
  zonectl exec web01 --user oper -- ls -l /var/log
  zonectl exec web01 -- sh -c "echo a b"`,
	Args: cobra.MinimumNArgs(2),
	ValidArgsFunction: zoneArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		res, err := m.Zone(args[0]).Execute(shellquote.Join(args[1:]...), execUser)
		if err != nil {
			return err
		}

		if jsonOutput || res.DryRun {
			return printResult(res, "")
		}
		fmt.Print(res.Output)
		return nil
	},
}

func init() {
	execCmd.Flags().StringVarP(&execUser, "user", "u", "", fmt.Sprintf("user to run as (default %s)", zone.DefaultUser))
	rootCmd.AddCommand(execCmd)
}
