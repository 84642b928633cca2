package runner_test

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunner_StdoutVerbatim(t *testing.T) {
	sh := requireSh(t)
	r := runner.NewExecRunner()

	out, err := r.Run([]string{sh, "-c", "printf '0:global:running:/::solaris:shared\\n'"})
	require.NoError(t, err)
	assert.Equal(t, "0:global:running:/::solaris:shared\n", string(out))
}

func TestExecRunner_ArgumentsNotShellInterpreted(t *testing.T) {
	sh := requireSh(t)
	r := runner.NewExecRunner()

	// $1 is echoed as-is: the semicolon and $(...) never reach a shell parser.
	out, err := r.Run([]string{sh, "-c", `printf '%s' "$1"`, "sh", "uname; $(id)"})
	require.NoError(t, err)
	assert.Equal(t, "uname; $(id)", string(out))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	sh := requireSh(t)
	r := runner.NewExecRunner()

	argv := []string{sh, "-c", "echo partial; echo 'zone not found' >&2; exit 3"}
	_, err := r.Run(argv)
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrExecFailed)

	var ee *errclass.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.ExitCode)
	assert.Equal(t, argv, ee.Argv)
	assert.Equal(t, "partial\n", string(ee.Stdout))
	assert.Equal(t, "zone not found\n", string(ee.Stderr))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := runner.NewExecRunner()

	_, err := r.Run([]string{"/nonexistent/zoneadm", "list", "-pc"})
	var ee *errclass.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 127, ee.ExitCode)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, []string{"/nonexistent/zoneadm", "list", "-pc"}, ee.Argv)
}

func TestExecRunner_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zonecfg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0644))

	_, err := runner.NewExecRunner().Run([]string{path, "-z", "web01", "exit"})
	var ee *errclass.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 127, ee.ExitCode)
	assert.Error(t, ee.Err)
}

func TestExecRunner_EmptyArgv(t *testing.T) {
	r := runner.NewExecRunner()
	_, err := r.Run(nil)
	assert.ErrorIs(t, err, errclass.ErrConfigInvalid)
}

func TestRecorder_ScriptsAndRecords(t *testing.T) {
	rec := runner.NewRecorder().
		On("all\n", "/usr/sbin/zoneadm", "list").
		On("one\n", "/usr/sbin/zoneadm", "-z", "web", "list")

	out, err := rec.Run([]string{"/usr/sbin/zoneadm", "list", "-pc"})
	require.NoError(t, err)
	assert.Equal(t, "all\n", string(out))

	out, err = rec.Run([]string{"/usr/sbin/zoneadm", "-z", "web", "list", "-p"})
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(out))

	out, err = rec.Run([]string{"/usr/bin/pfexec", "/usr/sbin/zoneadm", "-z", "web", "boot"})
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Equal(t, [][]string{
		{"/usr/sbin/zoneadm", "list", "-pc"},
		{"/usr/sbin/zoneadm", "-z", "web", "list", "-p"},
		{"/usr/bin/pfexec", "/usr/sbin/zoneadm", "-z", "web", "boot"},
	}, rec.Calls())

	rec.Reset()
	assert.Empty(t, rec.Calls())
}

func TestRecorder_LongestPrefixWins(t *testing.T) {
	rec := runner.NewRecorder().
		On("specific", "a", "b").
		On("generic", "a")

	out, _ := rec.Run([]string{"a", "b", "c"})
	assert.Equal(t, "specific", string(out))

	out, _ = rec.Run([]string{"a", "x"})
	assert.Equal(t, "generic", string(out))
}

func TestRecorder_Fail(t *testing.T) {
	rec := runner.NewRecorder().Fail(1, "zoneadm: zone 'x': illegal state", "/usr/sbin/zoneadm")

	argv := []string{"/usr/sbin/zoneadm", "-z", "x", "boot"}
	_, err := rec.Run(argv)

	var ee *errclass.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, argv, ee.Argv)
	assert.Equal(t, 1, ee.ExitCode)
	assert.Contains(t, string(ee.Stderr), "illegal state")
}
