// Package zone models zones as local projections of the host's zone
// registry and turns lifecycle operations into zone-tool invocations.
//
// Every mutating operation validates its inputs, authorizes the caller,
// re-reads the zone's live state when the operation is state-guarded, and
// only then builds and runs the command. Nothing is cached across calls and
// nothing is serialized: two callers racing on the same zone may both pass
// the guard before either command completes.
package zone

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/jvs-project/zonectl/internal/privilege"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/pkg/config"
	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/logging"
	"github.com/jvs-project/zonectl/pkg/model"
)

// Authorizer decides whether the caller may run mutating commands.
type Authorizer interface {
	Authorize(required privilege.Requirements) error
}

// Journal records executed mutating operations.
type Journal interface {
	Append(op model.Operation, zoneName string, argv [][]string, details map[string]any) error
}

// Result describes the commands a mutating operation built. In dry-run mode
// Argv is filled and nothing was executed.
type Result struct {
	Zone      string          `json:"zone"`
	Operation model.Operation `json:"operation"`
	Argv      [][]string      `json:"argv"`
	Output    string          `json:"output,omitempty"`
	DryRun    bool            `json:"dry_run"`
}

// Manager owns the collaborators shared by all zones: configuration,
// command runner, permission gate and optional journal.
type Manager struct {
	cfg      *config.Config
	runner   runner.Runner
	gate     Authorizer
	required privilege.Requirements
	journal  Journal
	logger   *logging.Logger
	dryRun   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithDryRun makes mutating operations return their argv instead of running them.
// Read-only listing still runs so guards see live state.
func WithDryRun(dryRun bool) Option {
	return func(m *Manager) { m.dryRun = dryRun }
}

// WithAuthorizer replaces the default privilege gate.
func WithAuthorizer(a Authorizer) Option {
	return func(m *Manager) { m.gate = a }
}

// WithJournal records every executed mutating operation.
func WithJournal(j Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager. Without WithAuthorizer, a privilege.Gate
// using cfg.Tools.Profiles and the same runner is used.
func NewManager(cfg *config.Config, r runner.Runner, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		runner:   r,
		required: privilege.NewRequirements(cfg.RequiredProfiles),
		logger:   logging.Global(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.gate == nil {
		m.gate = privilege.NewGate(r, cfg.Tools.Profiles)
	}
	return m
}

// Config returns the manager's configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// DryRun reports whether mutating operations are only rendered.
func (m *Manager) DryRun() bool {
	return m.dryRun
}

// Zone returns a projection for name without querying the host. Only the
// name is populated until the first refresh.
func (m *Manager) Zone(name string) *Zone {
	z := &Zone{m: m}
	z.attrs.put(FieldName, name)
	return z
}

// List runs the listing command once and returns one Zone per record, in
// listing order. A non-empty pattern is a regular expression anchored at
// the start of the zone name; non-matching records are skipped before they
// are parsed, so a malformed line only fails the listing when it matches.
func (m *Manager) List(pattern string) ([]*Zone, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, errclass.ErrConfigInvalid.WithMessagef("invalid zone name pattern %q: %v", pattern, err)
		}
	}

	out, err := m.runner.Run(m.listAllArgv())
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	var zones []*Zone
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		if re != nil && !re.MatchString(rawName(line)) {
			continue
		}
		attrs, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("list zones: %w", err)
		}
		zones = append(zones, &Zone{m: m, attrs: attrs})
	}

	m.logger.Debug("listed zones", map[string]any{"count": len(zones), "pattern": pattern})
	return zones, nil
}

// Get finds a zone by exact name with a linear scan of a fresh listing.
// A missing zone is (nil, false, nil).
func (m *Manager) Get(name string) (*Zone, bool, error) {
	zones, err := m.List("")
	if err != nil {
		return nil, false, err
	}
	for _, z := range zones {
		if z.Name() == name {
			return z, true, nil
		}
	}
	return nil, false, nil
}

// Exists reports whether a zone named name is configured on the host.
func (m *Manager) Exists(name string) (bool, error) {
	_, found, err := m.Get(name)
	return found, err
}

func (m *Manager) listAllArgv() []string {
	return []string{m.cfg.Tools.Zoneadm, "list", "-pc"}
}

func (m *Manager) listOneArgv(name string) []string {
	return []string{m.cfg.Tools.Zoneadm, "-z", name, "list", "-p"}
}

// zoneadm, zonecfg and zlogin build privileged argv prefixes.
func (m *Manager) zoneadm(name string, args ...string) []string {
	return append([]string{m.cfg.Tools.Pfexec, m.cfg.Tools.Zoneadm, "-z", name}, args...)
}

func (m *Manager) zonecfg(name string, args ...string) []string {
	return append([]string{m.cfg.Tools.Pfexec, m.cfg.Tools.Zonecfg, "-z", name}, args...)
}

func (m *Manager) zlogin(name, user, command string) []string {
	return []string{m.cfg.Tools.Pfexec, m.cfg.Tools.Zlogin, "-l", user, name, command}
}

func (m *Manager) authorize() error {
	return m.gate.Authorize(m.required)
}

// execute runs argv (or renders it in dry-run mode) and journals success.
func (m *Manager) execute(op model.Operation, name string, argv []string, details map[string]any) (*Result, error) {
	res := &Result{
		Zone:      name,
		Operation: op,
		Argv:      [][]string{slices.Clone(argv)},
		DryRun:    m.dryRun,
	}
	log := m.logger.WithFields(map[string]any{"zone": name, "op": string(op)})

	if m.dryRun {
		log.Debug("dry run", map[string]any{"argv": argv})
		return res, nil
	}

	out, err := m.runner.Run(argv)
	if err != nil {
		log.ErrorErr("zone command failed", err)
		return nil, fmt.Errorf("%s zone %s: %w", op, name, err)
	}
	res.Output = string(out)
	log.Info("zone command completed")

	if m.journal != nil {
		if err := m.journal.Append(op, name, res.Argv, details); err != nil {
			log.ErrorErr("journal append failed", err)
		}
	}
	return res, nil
}
