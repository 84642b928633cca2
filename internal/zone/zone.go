package zone

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/model"
	"github.com/jvs-project/zonectl/pkg/pathutil"
)

// DefaultUser is the in-zone user Execute runs as when none is given.
const DefaultUser = "root"

// Zone is a local projection of one host zone. Creating or discarding a
// Zone has no effect on the host.
type Zone struct {
	m     *Manager
	attrs Attributes
}

// Name returns the zone name, the immutable identity of the projection.
func (z *Zone) Name() string {
	return z.attrs.Value(FieldName)
}

// Attributes returns a copy of the cached attribute set.
func (z *Zone) Attributes() Attributes {
	return z.attrs
}

// SetAttribute stores a cached attribute. Unknown fields are rejected and
// the name cannot be changed to a different value.
func (z *Zone) SetAttribute(f Field, v string) error {
	if f == FieldName && v != z.Name() {
		return errclass.ErrConfigInvalid.WithMessagef("zone name is immutable: %s", z.Name())
	}
	return z.attrs.Set(f, v)
}

// Record returns the JSON projection of the cached attributes.
func (z *Zone) Record() model.ZoneRecord {
	return z.attrs.Model()
}

// Refresh re-reads every attribute from the host.
func (z *Zone) Refresh() error {
	out, err := z.m.runner.Run(z.m.listOneArgv(z.Name()))
	if err != nil {
		return fmt.Errorf("refresh zone %s: %w", z.Name(), err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	attrs, err := ParseRecord(line)
	if err != nil {
		return fmt.Errorf("refresh zone %s: %w", z.Name(), err)
	}
	if attrs.Value(FieldName) != z.Name() {
		return errclass.ErrRecordMalformed.WithMessagef("asked for zone %s, got record for %s", z.Name(), attrs.Value(FieldName))
	}
	z.attrs = attrs
	return nil
}

// CachedState returns the state from the last refresh or listing, or
// StateUnknown if none has happened.
func (z *Zone) CachedState() model.State {
	return model.ParseState(z.attrs.Value(FieldState))
}

// LiveState refreshes the zone and returns its current state.
func (z *Zone) LiveState() (model.State, error) {
	if err := z.Refresh(); err != nil {
		return model.StateUnknown, err
	}
	return z.CachedState(), nil
}

// Zonepath returns the cached zonepath.
func (z *Zone) Zonepath() string {
	return z.attrs.Value(FieldZonepath)
}

// Brand returns the cached brand.
func (z *Zone) Brand() string {
	return z.attrs.Value(FieldBrand)
}

// ZoneRoot returns the cached root directory, <zonepath>/root.
func (z *Zone) ZoneRoot() string {
	if z.Zonepath() == "" {
		return ""
	}
	return path.Join(z.Zonepath(), "root")
}

// Exists reports whether the zone is configured on the host.
func (z *Zone) Exists() (bool, error) {
	return z.m.Exists(z.Name())
}

// guard re-reads the live state of zone and checks it against op's allowed set.
func guard(zone *Zone, op model.Operation) error {
	allowed, ok := AllowedStates(op)
	if !ok {
		return nil
	}

	state, err := zone.LiveState()
	if err != nil {
		return err
	}
	if !allowed.Contains(state) {
		observed := zone.attrs.Value(FieldState)
		zone.m.logger.Warn("state guard rejected operation", map[string]any{
			"zone": zone.Name(), "op": string(op), "allowed": allowed.String(), "observed": observed,
		})
		return &errclass.StateError{
			Zone:      zone.Name(),
			Operation: string(op),
			Allowed:   allowed.Strings(),
			Observed:  observed,
		}
	}
	return nil
}

// guarded authorizes, checks the zone's live state against op, then runs argv.
func (z *Zone) guarded(op model.Operation, argv []string) (*Result, error) {
	if err := z.m.authorize(); err != nil {
		return nil, err
	}
	if err := guard(z, op); err != nil {
		return nil, err
	}
	return z.m.execute(op, z.Name(), argv, nil)
}

// lifecycle runs a state-guarded zoneadm verb.
func (z *Zone) lifecycle(op model.Operation, args ...string) (*Result, error) {
	return z.guarded(op, z.m.zoneadm(z.Name(), args...))
}

// Install installs a configured zone. The zone ends installed, or
// incomplete if the install fails midway.
func (z *Zone) Install() (*Result, error) {
	return z.lifecycle(model.OpInstall, "install")
}

// Uninstall removes an installed or incomplete zone's files.
func (z *Zone) Uninstall() (*Result, error) {
	return z.lifecycle(model.OpUninstall, "uninstall", "-F")
}

// Boot boots an installed zone.
func (z *Zone) Boot() (*Result, error) {
	return z.lifecycle(model.OpBoot, "boot")
}

// Ready brings an installed zone to ready.
func (z *Zone) Ready() (*Result, error) {
	return z.lifecycle(model.OpReady, "ready")
}

// Shutdown cleanly stops a running zone.
func (z *Zone) Shutdown() (*Result, error) {
	return z.lifecycle(model.OpShutdown, "shutdown")
}

// Halt stops a running zone without running its shutdown scripts.
func (z *Zone) Halt() (*Result, error) {
	return z.lifecycle(model.OpHalt, "halt")
}

// Reboot shuts a running zone down and boots it again.
func (z *Zone) Reboot() (*Result, error) {
	return z.lifecycle(model.OpReboot, "shutdown", "-r")
}

// Delete removes the zone configuration. Irreversible.
func (z *Zone) Delete() (*Result, error) {
	return z.guarded(model.OpDelete, z.m.zonecfg(z.Name(), "delete", "-F"))
}

// CreateOptions configures Create.
type CreateOptions struct {
	Template string // template name without directory or suffix
	Zonepath string // defaults to <zonepath_root>/<name>
	Brand    string // optional
}

// Create configures a new zone from a template. The zone must not exist
// and the template file must be present in the template directory.
func (z *Zone) Create(opts CreateOptions) (*Result, error) {
	name := z.Name()
	if err := pathutil.ValidateZoneName(name); err != nil {
		return nil, err
	}
	if err := z.m.checkTemplate(opts.Template); err != nil {
		return nil, err
	}

	zonepath := opts.Zonepath
	if zonepath == "" {
		zonepath = path.Join(z.m.cfg.ZonepathRoot, name)
	}
	if err := pathutil.ValidateConfigValue(zonepath); err != nil {
		return nil, err
	}
	if !path.IsAbs(zonepath) {
		return nil, errclass.ErrConfigInvalid.WithMessagef("zonepath must be absolute: %s", zonepath)
	}

	stmts := []string{
		"create -t " + opts.Template,
		"set zonepath=" + pathutil.QuoteConfigValue(zonepath),
	}
	if opts.Brand != "" {
		if err := pathutil.ValidateConfigValue(opts.Brand); err != nil {
			return nil, err
		}
		stmts = append(stmts, "set brand="+pathutil.QuoteConfigValue(opts.Brand))
	}

	if err := z.m.authorize(); err != nil {
		return nil, err
	}
	exists, err := z.Exists()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errclass.ErrZoneExists.WithMessagef("zone %s already exists", name)
	}

	details := map[string]any{"template": opts.Template, "zonepath": zonepath}
	if opts.Brand != "" {
		details["brand"] = opts.Brand
	}
	res, err := z.m.execute(model.OpCreate, name, z.m.zonecfg(name, script(stmts...)), details)
	if err != nil {
		return nil, err
	}
	if !res.DryRun {
		z.attrs.put(FieldZonepath, zonepath)
		if opts.Brand != "" {
			z.attrs.put(FieldBrand, opts.Brand)
		}
	}
	return res, nil
}

// checkTemplate verifies <dir>/<template><suffix> exists. Never cached.
func (m *Manager) checkTemplate(template string) error {
	if template == "" {
		return errclass.ErrTemplateMissing.WithMessage("template name must not be empty")
	}
	if strings.ContainsAny(template, `/\`) || template == "." || template == ".." {
		return errclass.ErrTemplateMissing.WithMessagef("template name must not contain path separators: %s", template)
	}
	if err := pathutil.ValidateConfigValue(template); err != nil {
		return err
	}
	if strings.ContainsFunc(template, func(r rune) bool { return r == ' ' || r == '\t' }) {
		return errclass.ErrTemplateMissing.WithMessagef("template name must not contain whitespace: %q", template)
	}

	p := filepath.Join(m.cfg.Templates.Dir, template+m.cfg.Templates.Suffix)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return errclass.ErrTemplateMissing.WithMessagef("template %s not found at %s", template, p)
	}
	return nil
}

// Clone installs this (configured) zone by copying source, which must be installed.
func (z *Zone) Clone(source string) (*Result, error) {
	if source == "" {
		return nil, errclass.ErrConfigInvalid.WithMessage("clone source must not be empty")
	}
	if source == z.Name() {
		return nil, errclass.ErrConfigInvalid.WithMessagef("zone %s cannot be cloned from itself", source)
	}

	if err := z.m.authorize(); err != nil {
		return nil, err
	}
	if err := guard(z.m.Zone(source), model.OpClone); err != nil {
		return nil, err
	}
	return z.m.execute(model.OpClone, z.Name(), z.m.zoneadm(z.Name(), "clone", source),
		map[string]any{"source": source})
}

// Execute runs command inside the running zone as user (root when empty)
// and returns its stdout in Result.Output. command is passed to the login
// tool as one opaque argument.
func (z *Zone) Execute(command, user string) (*Result, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errclass.ErrConfigInvalid.WithMessage("command must not be empty")
	}
	if user == "" {
		user = DefaultUser
	}
	if strings.HasPrefix(user, "-") || strings.ContainsFunc(user, func(r rune) bool { return r <= ' ' }) {
		return nil, errclass.ErrConfigInvalid.WithMessagef("invalid user name: %q", user)
	}

	if err := z.m.authorize(); err != nil {
		return nil, err
	}
	if err := guard(z, model.OpExecute); err != nil {
		return nil, err
	}
	return z.m.execute(model.OpExecute, z.Name(), z.m.zlogin(z.Name(), user, command),
		map[string]any{"user": user})
}

// AddProperty adds one resource section. attrs must carry exactly the keys
// of the kind's schema.
func (z *Zone) AddProperty(kind string, attrs map[string]string) (*Result, error) {
	return z.AddProperties(Property{Kind: kind, Attrs: attrs})
}

// AddProperties adds several resource sections in one zonecfg invocation.
// Every section is validated before anything runs.
func (z *Zone) AddProperties(props ...Property) (*Result, error) {
	s, err := addScript(props)
	if err != nil {
		return nil, err
	}
	if err := z.m.authorize(); err != nil {
		return nil, err
	}

	kinds := make([]string, len(props))
	for i, p := range props {
		kinds[i] = p.Kind
	}
	return z.m.execute(model.OpAddProperty, z.Name(), z.m.zonecfg(z.Name(), s),
		map[string]any{"kinds": kinds})
}

// RemoveProperty removes resource sections of kind matching selector
// (all of that kind when selector is empty).
func (z *Zone) RemoveProperty(kind string, selector map[string]string) (*Result, error) {
	s, err := removeScript(kind, selector)
	if err != nil {
		return nil, err
	}
	if err := z.m.authorize(); err != nil {
		return nil, err
	}
	return z.m.execute(model.OpRemoveProperty, z.Name(), z.m.zonecfg(z.Name(), s),
		map[string]any{"kind": kind})
}

// Configure sets one global zonecfg property such as autoboot or pool.
func (z *Zone) Configure(attr, value string) (*Result, error) {
	s, err := configureScript(attr, value)
	if err != nil {
		return nil, err
	}
	if err := z.m.authorize(); err != nil {
		return nil, err
	}
	return z.m.execute(model.OpConfigure, z.Name(), z.m.zonecfg(z.Name(), s),
		map[string]any{"attr": attr, "value": value})
}
