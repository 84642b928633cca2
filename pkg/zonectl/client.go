package zonectl

import (
	"context"
	"fmt"

	"github.com/jvs-project/zonectl/internal/audit"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/config"
	"github.com/jvs-project/zonectl/pkg/model"
)

// DefaultConfigPath is the host-wide configuration file.
const DefaultConfigPath = config.DefaultPath

type (
	// Zone is a local projection of one host zone.
	Zone = zone.Zone
	// Result describes the commands a mutating operation built or ran.
	Result = zone.Result
	// CreateOptions configures Zone.Create.
	CreateOptions = zone.CreateOptions
	// Property is one resource section for Zone.AddProperties.
	Property = zone.Property
	// Runner executes argument vectors on the host.
	Runner = runner.Runner
	// Authorizer decides whether the caller may run mutating commands.
	Authorizer = zone.Authorizer
)

// Client provides zone operations for one host configuration.
type Client struct {
	cfg *config.Config
	m   *zone.Manager
}

type options struct {
	dryRun bool
	runner Runner
	auth   Authorizer
}

// Option configures Open.
type Option func(*options)

// WithDryRun makes mutating operations return their argv without running.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithRunner replaces the os/exec runner, e.g. to run tools on another host.
func WithRunner(r Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithAuthorizer replaces the default euid/profile privilege check.
func WithAuthorizer(a Authorizer) Option {
	return func(o *options) { o.auth = a }
}

// Open loads configuration from configPath (defaults when the file is
// absent) and returns a Client. The audit journal is attached when the
// configuration enables it.
func Open(configPath string, opts ...Option) (*Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("zonectl open: %w", err)
	}
	return New(cfg, opts...), nil
}

// New returns a Client for an already loaded configuration.
func New(cfg *config.Config, opts ...Option) *Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runner == nil {
		o.runner = runner.NewExecRunner()
	}

	mopts := []zone.Option{zone.WithDryRun(o.dryRun)}
	if o.auth != nil {
		mopts = append(mopts, zone.WithAuthorizer(o.auth))
	}
	if cfg.Audit.Enabled {
		mopts = append(mopts, zone.WithJournal(audit.NewFileAppender(cfg.Audit.Path)))
	}
	return &Client{cfg: cfg, m: zone.NewManager(cfg, o.runner, mopts...)}
}

// Config returns the client's configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// List returns the records of all zones whose name matches pattern (a
// regular expression anchored at the start of the name; empty matches
// all), in listing order.
func (c *Client) List(_ context.Context, pattern string) ([]model.ZoneRecord, error) {
	zones, err := c.m.List(pattern)
	if err != nil {
		return nil, err
	}
	records := make([]model.ZoneRecord, len(zones))
	for i, z := range zones {
		records[i] = z.Record()
	}
	return records, nil
}

// Get returns the zone named name from a fresh listing. A missing zone is
// (nil, false, nil).
func (c *Client) Get(_ context.Context, name string) (*Zone, bool, error) {
	return c.m.Get(name)
}

// Exists reports whether a zone named name is configured.
func (c *Client) Exists(_ context.Context, name string) (bool, error) {
	return c.m.Exists(name)
}

// Zone returns a projection for name without querying the host.
func (c *Client) Zone(name string) *Zone {
	return c.m.Zone(name)
}
