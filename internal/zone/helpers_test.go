package zone_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jvs-project/zonectl/internal/privilege"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/config"
	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/model"
	"github.com/stretchr/testify/require"
)

const (
	zoneadm = "/usr/sbin/zoneadm"
	zonecfg = "/usr/sbin/zonecfg"
	zlogin  = "/usr/sbin/zlogin"
	pfexec  = "/usr/bin/pfexec"
)

type allowAll struct{ calls int }

func (a *allowAll) Authorize(privilege.Requirements) error {
	a.calls++
	return nil
}

type denyAll struct{}

func (denyAll) Authorize(r privilege.Requirements) error {
	return &errclass.AuthorizationError{Required: r.Strings()}
}

type journalEntry struct {
	op      model.Operation
	zone    string
	argv    [][]string
	details map[string]any
}

type memJournal struct{ entries []journalEntry }

func (j *memJournal) Append(op model.Operation, name string, argv [][]string, details map[string]any) error {
	j.entries = append(j.entries, journalEntry{op, name, argv, details})
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Templates.Dir = t.TempDir()
	return cfg
}

func writeTemplate(t *testing.T, cfg *config.Config, name string) {
	t.Helper()
	path := filepath.Join(cfg.Templates.Dir, name+cfg.Templates.Suffix)
	require.NoError(t, os.WriteFile(path, []byte("<zone/>"), 0644))
}

func newManager(t *testing.T, rec *runner.Recorder, opts ...zone.Option) *zone.Manager {
	t.Helper()
	opts = append([]zone.Option{zone.WithAuthorizer(&allowAll{})}, opts...)
	return zone.NewManager(testConfig(t), rec, opts...)
}

// record renders one listing line for name in state.
func record(id int, name string, state model.State) string {
	return fmt.Sprintf("%d:%s:%s:/zones/%s:uuid-%s:solaris:shared\n", id, name, state, name, name)
}

// withState scripts the single-zone listing used by state guards.
func withState(rec *runner.Recorder, name string, state model.State) *runner.Recorder {
	return rec.On(record(-1, name, state), zoneadm, "-z", name, "list", "-p")
}

func listOne(name string) []string {
	return []string{zoneadm, "-z", name, "list", "-p"}
}
