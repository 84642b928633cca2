package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/pkg/color"
	"github.com/jvs-project/zonectl/pkg/model"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List zones",
	Long: `List every configured zone on the host.

The optional pattern is a regular expression matched against the start
of the zone name, so "web" lists web01 and web02 but not myweb.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		var pattern string
		if len(args) == 1 {
			pattern = args[0]
		}

		zones, err := m.List(pattern)
		if err != nil {
			return err
		}
		records := make([]model.ZoneRecord, len(zones))
		for i, z := range zones {
			records[i] = z.Record()
		}

		if jsonOutput {
			return outputJSON(records)
		}
		if len(records) == 0 {
			fmt.Println("No zones found.")
			return nil
		}
		fmt.Println(zoneTable(records))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <zone>",
	Short: "Show one zone",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: zoneArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManager()
		if err != nil {
			return err
		}
		name := args[0]

		zones, err := m.List("")
		if err != nil {
			return err
		}
		for _, z := range zones {
			if z.Name() != name {
				continue
			}
			r := z.Record()
			if jsonOutput {
				return outputJSON(r)
			}
			fmt.Printf("%s %s\n", color.Header("Zone:"), r.Name)
			fmt.Printf("  ID:       %s\n", r.ID)
			fmt.Printf("  State:    %s\n", color.State(r.RawState))
			fmt.Printf("  Zonepath: %s\n", r.Zonepath)
			fmt.Printf("  Root:     %s\n", z.ZoneRoot())
			fmt.Printf("  Brand:    %s\n", r.Brand)
			fmt.Printf("  IP type:  %s\n", r.IPType)
			if r.UUID != "" {
				fmt.Printf("  UUID:     %s\n", color.Dim(r.UUID))
			}
			return nil
		}
		return fmt.Errorf("%s", formatZoneNotFoundError(name, zones))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
