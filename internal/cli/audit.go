package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/internal/audit"
	"github.com/jvs-project/zonectl/pkg/color"
)

var auditCmd = &cobra.Command{
	Use:   "audit <command>",
	Short: "Inspect the operation journal",
	Long: `Inspect the operation journal at audit.path.

Every executed mutating operation is appended when audit.enabled is true.`,
	DisableFlagsInUseLine: true,
}

var auditLogLimit int

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show journal records, newest last",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		records, err := audit.NewFileAppender(cfg.Audit.Path).Records()
		if err != nil {
			return err
		}
		if auditLogLimit > 0 && len(records) > auditLogLimit {
			records = records[len(records)-auditLogLimit:]
		}

		if jsonOutput {
			return outputJSON(records)
		}
		if len(records) == 0 {
			fmt.Println("No journal records.")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %-14s %-20s %s\n",
				color.Dim(r.Timestamp.Format("2006-01-02 15:04:05")), r.EventType, r.ZoneName, r.User)
			for _, argv := range r.Argv {
				fmt.Printf("    %s\n", color.Dim(strings.Join(argv, " ")))
			}
		}
		return nil
	},
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the journal's hash chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		n, err := audit.NewFileAppender(cfg.Audit.Path).Verify()
		if jsonOutput {
			out := map[string]any{"records": n, "valid": err == nil}
			if err != nil {
				out["error"] = err.Error()
			}
			if jerr := outputJSON(out); jerr != nil {
				return jerr
			}
			return err
		}
		if err != nil {
			return err
		}
		fmt.Println(color.Successf("Journal intact: %d records verified.", n))
		return nil
	},
}

func init() {
	auditLogCmd.Flags().IntVarP(&auditLogLimit, "limit", "n", 0, "show only the last n records")
	auditCmd.AddCommand(auditLogCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	rootCmd.AddCommand(auditCmd)
}
