package cli

import (
	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/internal/zone"
)

type lifecycleVerb struct {
	use   string
	short string
	long  string
	done  string
	run   func(*zone.Zone) (*zone.Result, error)
}

var lifecycleVerbs = []lifecycleVerb{
	{"install", "Install a configured zone", "Requires the zone to be configured.", "installed", (*zone.Zone).Install},
	{"uninstall", "Uninstall a zone's files", "Requires the zone to be installed or incomplete.", "uninstalled", (*zone.Zone).Uninstall},
	{"boot", "Boot an installed zone", "Requires the zone to be installed.", "booted", (*zone.Zone).Boot},
	{"ready", "Bring an installed zone to ready", "Requires the zone to be installed.", "is ready", (*zone.Zone).Ready},
	{"shutdown", "Cleanly shut down a running zone", "Requires the zone to be running.", "shut down", (*zone.Zone).Shutdown},
	{"halt", "Halt a running zone", "Requires the zone to be running. Shutdown scripts are not run.", "halted", (*zone.Zone).Halt},
	{"reboot", "Reboot a running zone", "Requires the zone to be running.", "rebooted", (*zone.Zone).Reboot},
	{"delete", "Delete a zone's configuration", "Requires the zone to be configured or incomplete. Irreversible.", "deleted", (*zone.Zone).Delete},
}

// lifecycleCmds holds one command per state-guarded zoneadm verb.
var lifecycleCmds []*cobra.Command

func newLifecycleCmd(v lifecycleVerb) *cobra.Command {
	return &cobra.Command{
		Use:   v.use + " <zone>",
		Short: v.short,
		Long:  v.short + ".\n\n" + v.long + " The zone's state is re-read immediately before the command runs.",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: zoneArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := requireManager()
			if err != nil {
				return err
			}
			res, err := v.run(m.Zone(args[0]))
			if err != nil {
				return err
			}
			return printResult(res, v.done)
		},
	}
}

var (
	createTemplate string
	createZonepath string
	createBrand    string
)

var createCmd = &cobra.Command{
	Use:   "create <zone>",
	Short: "Configure a new zone from a template",
	Long: `Configure a new zone from a template.

The template must exist as <templates.dir>/<name><templates.suffix>.
The zonepath defaults to <zonepath_root>/<zone>.

Examples:
  zonectl create web01 --template SYSdefault
  zonectl create kz1 --template SYSsolaris-kz --brand solaris-kz --zonepath /tank/kz1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		res, err := m.Zone(args[0]).Create(zone.CreateOptions{
			Template: createTemplate,
			Zonepath: createZonepath,
			Brand:    createBrand,
		})
		if err != nil {
			return err
		}
		return printResult(res, "configured")
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone <zone> <source>",
	Short: "Install a configured zone by cloning an installed one",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: zoneArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		res, err := m.Zone(args[0]).Clone(args[1])
		if err != nil {
			return err
		}
		return printResult(res, "cloned from "+args[1])
	},
}

func init() {
	for _, v := range lifecycleVerbs {
		cmd := newLifecycleCmd(v)
		lifecycleCmds = append(lifecycleCmds, cmd)
		rootCmd.AddCommand(cmd)
	}

	createCmd.Flags().StringVar(&createTemplate, "template", "", "template name (required)")
	createCmd.Flags().StringVar(&createZonepath, "zonepath", "", "zone path (default <zonepath_root>/<zone>)")
	createCmd.Flags().StringVar(&createBrand, "brand", "", "zone brand")
	createCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(cloneCmd)
}
