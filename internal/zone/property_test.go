package zone_test

import (
	"testing"

	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProperty_MissingKeyFailsWithoutRunning(t *testing.T) {
	rec := runner.NewRecorder()
	auth := &allowAll{}
	m := zone.NewManager(testConfig(t), rec, zone.WithAuthorizer(auth))

	_, err := m.Zone("web").AddProperty("capped-memory", map[string]string{"physical": "1G", "swap": "1G"})
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
	require.ErrorIs(t, err, errclass.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "locked")
	assert.Empty(t, rec.Calls())
	assert.Zero(t, auth.calls)
}

func TestAddProperty_ExtraKeyFails(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").AddProperty("capped-cpu", map[string]string{"ncpus": "2", "shares": "10"})
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
	assert.Contains(t, err.Error(), "shares")
	assert.Empty(t, rec.Calls())
}

func TestAddProperty_UnknownKindFails(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").AddProperty("net", map[string]string{"physical": "net0"})
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
	assert.Empty(t, rec.Calls())
}

func TestAddProperty_UnsafeValueFails(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").AddProperty("dataset", map[string]string{"name": "rpool/data;delete -F"})
	require.ErrorIs(t, err, errclass.ErrConfigInvalid)
	assert.Empty(t, rec.Calls())
}

func TestAddProperty_CappedMemoryScript(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	res, err := m.Zone("web").AddProperty("capped-memory", map[string]string{
		"physical": "1G", "swap": "1G", "locked": "1G",
	})
	require.NoError(t, err)

	want := []string{pfexec, zonecfg, "-z", "web",
		"add capped-memory;set physical=1G;set swap=1G;set locked=1G;end;exit"}
	assert.Equal(t, [][]string{want}, rec.Calls())
	assert.Equal(t, [][]string{want}, res.Argv)
}

func TestAddProperties_Batch(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").AddProperties(
		zone.Property{Kind: "fs", Attrs: map[string]string{"dir": "/data", "special": "/export/my data", "type": "lofs"}},
		zone.Property{Kind: "capped-cpu", Attrs: map[string]string{"ncpus": "1.5"}},
	)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{pfexec, zonecfg, "-z", "web",
		`add fs;set dir=/data;set special="/export/my data";set type=lofs;end;add capped-cpu;set ncpus=1.5;end;exit`}},
		rec.Calls())
}

func TestAddProperties_OneBadSectionRunsNothing(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").AddProperties(
		zone.Property{Kind: "capped-cpu", Attrs: map[string]string{"ncpus": "2"}},
		zone.Property{Kind: "dataset", Attrs: map[string]string{}},
	)
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
	assert.Empty(t, rec.Calls())

	_, err = m.Zone("web").AddProperties()
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
}

func TestRemoveProperty(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").RemoveProperty("fs", map[string]string{"dir": "/data"})
	require.NoError(t, err)
	_, err = m.Zone("web").RemoveProperty("capped-memory", nil)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{pfexec, zonecfg, "-z", "web", "remove fs dir=/data;exit"},
		{pfexec, zonecfg, "-z", "web", "remove capped-memory;exit"},
	}, rec.Calls())
}

func TestRemoveProperty_BadSelector(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").RemoveProperty("fs", map[string]string{"mountpoint": "/data"})
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
	_, err = m.Zone("web").RemoveProperty("attr", nil)
	require.ErrorIs(t, err, errclass.ErrPropertySchema)
	assert.Empty(t, rec.Calls())
}

func TestConfigure(t *testing.T) {
	rec := runner.NewRecorder()
	m := newManager(t, rec)

	_, err := m.Zone("web").Configure("autoboot", "true")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{pfexec, zonecfg, "-z", "web", "set autoboot=true;exit"}}, rec.Calls())

	rec.Reset()
	_, err = m.Zone("web").Configure("name", "other")
	require.ErrorIs(t, err, errclass.ErrUnknownAttribute)
	_, err = m.Zone("web").Configure("pool", "p;exit")
	require.ErrorIs(t, err, errclass.ErrConfigInvalid)
	assert.Empty(t, rec.Calls())
}

func TestSchema(t *testing.T) {
	keys, ok := zone.Schema("capped-memory")
	require.True(t, ok)
	assert.Equal(t, []string{"physical", "swap", "locked"}, keys)

	_, ok = zone.Schema("net")
	assert.False(t, ok)
	assert.Equal(t, []string{"capped-cpu", "capped-memory", "dataset", "fs"}, zone.PropertyKinds())
}
