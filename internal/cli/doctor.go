package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/internal/doctor"
	"github.com/jvs-project/zonectl/pkg/color"
)

var (
	doctorStrict bool
	doctorRepair []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check host health for zone management",
	Long: `Check host health for zone management.

Checks that the zone tools exist and are executable, the template
directory is present, the caller may run mutating commands, the zone
listing parses, and no zone is left incomplete.
Use --strict to also verify the audit journal's hash chain.
Use --repair clean_tmp to remove temp files left by interrupted saves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r := newRunner()
		doc := doctor.NewDoctor(cfg, r, newAuthorizer(cfg, r), configPath)

		if len(doctorRepair) > 0 {
			results, err := doc.Repair(doctorRepair)
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(results)
			}
			for _, res := range results {
				if res.Success {
					fmt.Printf("%s %s: cleaned %d\n", color.Success("ok"), res.Action, res.Cleaned)
				} else {
					fmt.Printf("%s %s: %s\n", color.Error("failed"), res.Action, res.Message)
				}
			}
			return nil
		}

		result, err := doc.Check(doctorStrict)
		if err != nil {
			return fmt.Errorf("doctor: %w", err)
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else if len(result.Findings) == 0 {
			fmt.Println(color.Success("Host is healthy."))
		} else {
			fmt.Printf("Findings (%d):\n", len(result.Findings))
			for _, f := range result.Findings {
				fmt.Printf("  [%s] %s: %s\n", severity(f.Severity), f.Category, f.Description)
			}
		}

		if !result.Healthy {
			return fmt.Errorf("host is not healthy")
		}
		return nil
	},
}

func severity(s string) string {
	switch s {
	case "critical", "error":
		return color.Error(s)
	case "warning":
		return color.Warning(s)
	default:
		return color.Dim(s)
	}
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false, "include audit journal verification")
	doctorCmd.Flags().StringSliceVar(&doctorRepair, "repair", nil, "run repair actions (clean_tmp)")
	rootCmd.AddCommand(doctorCmd)
}
