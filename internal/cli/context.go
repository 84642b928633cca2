package cli

import (
	"github.com/spf13/cobra"

	"github.com/jvs-project/zonectl/internal/audit"
	"github.com/jvs-project/zonectl/internal/privilege"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/color"
	"github.com/jvs-project/zonectl/pkg/config"
	"github.com/jvs-project/zonectl/pkg/logging"
)

// Replaceable in tests.
var (
	newRunner = func() runner.Runner {
		return runner.NewExecRunner()
	}
	newAuthorizer = func(cfg *config.Config, r runner.Runner) zone.Authorizer {
		return privilege.NewGate(r, cfg.Tools.Profiles)
	}
)

// setup runs before every command: colors, env file and log level.
func setup(cmd *cobra.Command, args []string) error {
	color.Init(noColor)
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	if logLevel != "" {
		logging.Global().SetLevel(logging.ParseLevel(logLevel))
	}
	return nil
}

// loadConfig reads --config and applies the configured logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logging.Global().SetLevel(logging.ParseLevel(level))
	logging.Global().SetFormat(cfg.Logging.Format)
	return cfg, nil
}

// requireManager builds a zone manager from the loaded configuration.
func requireManager() (*zone.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	r := newRunner()
	opts := []zone.Option{
		zone.WithDryRun(dryRun),
		zone.WithAuthorizer(newAuthorizer(cfg, r)),
		zone.WithLogger(logging.Global()),
	}
	if cfg.Audit.Enabled {
		opts = append(opts, zone.WithJournal(audit.NewFileAppender(cfg.Audit.Path)))
	}
	return zone.NewManager(cfg, r, opts...), nil
}
