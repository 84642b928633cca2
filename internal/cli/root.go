package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/pkg/color"
	"github.com/jvs-project/zonectl/pkg/config"
)

var (
	jsonOutput bool
	dryRun     bool
	configPath string
	envFile    string
	noColor    bool
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "zonectl",
		Short: "zonectl - Solaris zone lifecycle management",
		Long: `zonectl drives the zone administration tools (zoneadm, zonecfg, zlogin)
to create, install, boot and tear down zones. Every mutating command is
checked against the caller's privileges and the zone's live state before
it runs, and --dry-run prints the exact commands instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

func init() {
	addGlobalFlags(rootCmd)
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	f.BoolVar(&dryRun, "dry-run", false, "print the commands a mutating operation would run")
	f.StringVar(&configPath, "config", config.DefaultPath, "config file (.yaml or .toml)")
	f.StringVar(&envFile, "env-file", "", "load ZONECTL_* variables from this file first")
	f.BoolVar(&noColor, "no-color", false, "disable colored output")
	f.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtErr(format string, args ...any) {
	prefix := "zonectl: "
	if color.Enabled() {
		prefix = color.Error("zonectl:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
