package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/pkg/color"
)

var propertyCmd = &cobra.Command{
	Use:   "property <command>",
	Short: "Add or remove zone resource properties",
	Long: `Add or remove zonecfg resource sections.

Supported kinds and their attributes:
  capped-memory  physical swap locked
  capped-cpu     ncpus
  fs             dir special type
  dataset        name

Adding requires every attribute of the kind, and no others.`,
	DisableFlagsInUseLine: true,
}

var propertyAddCmd = &cobra.Command{
	Use:   "add <zone> <kind> <key=value>...",
	Short: "Add a resource section",
	Long: `Add a resource section.

Example:
  zonectl property add web01 capped-memory physical=1G swap=2G locked=512M`,
	Args: cobra.MinimumNArgs(2),
	ValidArgsFunction: zoneArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAssignments(args[2:])
		if err != nil {
			return err
		}
		m, err := requireManager()
		if err != nil {
			return err
		}
		res, err := m.Zone(args[0]).AddProperty(args[1], attrs)
		if err != nil {
			return err
		}
		return printResult(res, "updated: added "+args[1])
	},
}

var propertyRemoveCmd = &cobra.Command{
	Use:   "remove <zone> <kind> [key=value]...",
	Short: "Remove resource sections",
	Long: `Remove resource sections of a kind. With no selector every section of
that kind is removed.

Example:
  zonectl property remove web01 fs dir=/data`,
	Args: cobra.MinimumNArgs(2),
	ValidArgsFunction: zoneArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selector, err := parseAssignments(args[2:])
		if err != nil {
			return err
		}
		m, err := requireManager()
		if err != nil {
			return err
		}
		res, err := m.Zone(args[0]).RemoveProperty(args[1], selector)
		if err != nil {
			return err
		}
		return printResult(res, "updated: removed "+args[1])
	},
}

var setCmd = &cobra.Command{
	Use:   "set <zone> <attr> <value>",
	Short: "Set a global zone property",
	Long: `Set a global zonecfg property.

Settable properties: autoboot, bootargs, brand, hostid, ip-type,
limitpriv, pool, scheduling-class, zonepath.`,
	Args: cobra.ExactArgs(3),
	ValidArgsFunction: zoneArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		res, err := m.Zone(args[0]).Configure(args[1], args[2])
		if err != nil {
			return err
		}
		return printResult(res, fmt.Sprintf("updated: %s=%s", args[1], color.Header(args[2])))
	},
}

func init() {
	propertyCmd.AddCommand(propertyAddCmd)
	propertyCmd.AddCommand(propertyRemoveCmd)
	rootCmd.AddCommand(propertyCmd)
	rootCmd.AddCommand(setCmd)
}
