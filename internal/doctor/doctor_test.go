package doctor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jvs-project/zonectl/internal/audit"
	"github.com/jvs-project/zonectl/internal/doctor"
	"github.com/jvs-project/zonectl/internal/privilege"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/pkg/config"
	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/fsutil"
	"github.com/jvs-project/zonectl/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gate struct{ err error }

func (g gate) Authorize(privilege.Requirements) error { return g.err }

// setupHost creates executable stand-ins for the zone tools and a
// template directory holding one template.
func setupHost(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))

	cfg := config.Default()
	for _, p := range []*string{&cfg.Tools.Zoneadm, &cfg.Tools.Zonecfg, &cfg.Tools.Zlogin, &cfg.Tools.Pfexec, &cfg.Tools.Profiles} {
		*p = filepath.Join(bin, filepath.Base(*p))
		require.NoError(t, os.WriteFile(*p, []byte("#!/bin/sh\n"), 0755))
	}

	cfg.Templates.Dir = filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(cfg.Templates.Dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Templates.Dir, "SYSdefault.xml"), []byte("<zone/>"), 0644))

	cfg.Audit.Path = filepath.Join(dir, "audit.jsonl")
	return cfg
}

func healthyListing(cfg *config.Config) *runner.Recorder {
	return runner.NewRecorder().On(
		"0:global:running:/::solaris:shared\n1:web01:running:/zones/web01:aaaa:solaris:excl\n",
		cfg.Tools.Zoneadm, "list", "-pc")
}

func findings(result *doctor.Result, category string) []doctor.Finding {
	var out []doctor.Finding
	for _, f := range result.Findings {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

func TestDoctor_Check_Healthy(t *testing.T) {
	cfg := setupHost(t)

	doc := doctor.NewDoctor(cfg, healthyListing(cfg), gate{}, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)
	assert.Empty(t, result.Findings)
}

func TestDoctor_Check_MissingTool(t *testing.T) {
	cfg := setupHost(t)
	require.NoError(t, os.Remove(cfg.Tools.Zlogin))
	require.NoError(t, os.Chmod(cfg.Tools.Pfexec, 0644))

	doc := doctor.NewDoctor(cfg, healthyListing(cfg), gate{}, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.False(t, result.Healthy)

	tools := findings(result, "tools")
	require.Len(t, tools, 2)
	assert.Equal(t, "zlogin not found", tools[0].Description)
	assert.Equal(t, "pfexec is not executable", tools[1].Description)
	assert.Equal(t, "critical", tools[0].Severity)
}

func TestDoctor_Check_MissingZoneadmSkipsListing(t *testing.T) {
	cfg := setupHost(t)
	require.NoError(t, os.Remove(cfg.Tools.Zoneadm))
	rec := healthyListing(cfg)

	doc := doctor.NewDoctor(cfg, rec, gate{}, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	assert.Empty(t, rec.Calls())
}

func TestDoctor_Check_TemplateDir(t *testing.T) {
	cfg := setupHost(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Templates.Dir, "SYSdefault.xml")))

	doc := doctor.NewDoctor(cfg, healthyListing(cfg), gate{}, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)
	tmpl := findings(result, "templates")
	require.Len(t, tmpl, 1)
	assert.Equal(t, "warning", tmpl[0].Severity)

	cfg.Templates.Dir = filepath.Join(t.TempDir(), "missing")
	result, err = doc.Check(false)
	require.NoError(t, err)
	tmpl = findings(result, "templates")
	require.Len(t, tmpl, 1)
	assert.Equal(t, "error", tmpl[0].Severity)
}

func TestDoctor_Check_NotAuthorized(t *testing.T) {
	cfg := setupHost(t)
	denied := gate{err: &errclass.AuthorizationError{Required: []string{"Zone Management"}}}

	doc := doctor.NewDoctor(cfg, healthyListing(cfg), denied, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)

	priv := findings(result, "privilege")
	require.Len(t, priv, 1)
	assert.Contains(t, priv[0].Description, "E_NOT_AUTHORIZED")
}

func TestDoctor_Check_Listing(t *testing.T) {
	cfg := setupHost(t)
	rec := runner.NewRecorder().On(
		"1:web01:running:/zones/web01:aaaa:solaris:excl\n"+
			"garbage\n"+
			"-:build:incomplete:/zones/build:bbbb:solaris:excl\n",
		cfg.Tools.Zoneadm, "list", "-pc")

	doc := doctor.NewDoctor(cfg, rec, gate{}, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)

	listing := findings(result, "listing")
	require.Len(t, listing, 1)
	assert.Contains(t, listing[0].Description, "line 2")
	assert.Equal(t, "error", listing[0].Severity)

	zones := findings(result, "zone")
	require.Len(t, zones, 1)
	assert.Contains(t, zones[0].Description, "'build' is incomplete")
	assert.Equal(t, "/zones/build", zones[0].Path)
}

func TestDoctor_Check_ListingFails(t *testing.T) {
	cfg := setupHost(t)
	rec := runner.NewRecorder().Fail(1, "zoneadm: not supported", cfg.Tools.Zoneadm)

	doc := doctor.NewDoctor(cfg, rec, gate{}, "")
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	require.Len(t, findings(result, "listing"), 1)
}

func TestDoctor_Check_StrictAudit(t *testing.T) {
	cfg := setupHost(t)
	cfg.Audit.Enabled = true

	journal := audit.NewFileAppender(cfg.Audit.Path)
	require.NoError(t, journal.Append(model.OpBoot, "web01", nil, nil))
	require.NoError(t, journal.Append(model.OpHalt, "web01", nil, nil))

	doc := doctor.NewDoctor(cfg, healthyListing(cfg), gate{}, "")
	result, err := doc.Check(true)
	require.NoError(t, err)
	assert.True(t, result.Healthy)

	data, err := os.ReadFile(cfg.Audit.Path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.Audit.Path, append([]byte("{}\n"), data...), 0644))

	result, err = doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy, "non-strict check skips the audit chain")

	result, err = doc.Check(true)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	require.Len(t, findings(result, "audit"), 1)
}

func TestDoctor_OrphanTmpAndRepair(t *testing.T) {
	cfg := setupHost(t)
	confDir := t.TempDir()
	configPath := filepath.Join(confDir, "config.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(confDir, fsutil.TempPrefix+"1"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, fsutil.TempPrefix+"2"), []byte("x"), 0644))

	doc := doctor.NewDoctor(cfg, healthyListing(cfg), gate{}, configPath)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)
	assert.Len(t, findings(result, "tmp"), 2)

	actions := doc.ListRepairActions()
	require.Len(t, actions, 1)
	assert.Equal(t, "clean_tmp", actions[0].ID)

	results, err := doc.Repair([]string{"clean_tmp", "unknown_action"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, 2, results[0].Cleaned)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Message, "unknown repair action")

	assert.NoFileExists(t, filepath.Join(confDir, fsutil.TempPrefix+"1"))
}
