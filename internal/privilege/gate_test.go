package privilege_test

import (
	"errors"
	"testing"

	"github.com/jvs-project/zonectl/internal/privilege"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesTool = "/usr/bin/profiles"

func newGate(rec *runner.Recorder, euid int, sys string) *privilege.Gate {
	g := privilege.NewGate(rec, profilesTool)
	g.Geteuid = func() int { return euid }
	g.Sysname = func() (string, error) { return sys, nil }
	return g
}

var defaultReqs = privilege.NewRequirements([][]string{
	{"Primary Administrator"},
	{"Zone Management"},
})

func TestAuthorize_SuperuserAlwaysPasses(t *testing.T) {
	for _, profiles := range []string{"", "Basic Solaris User\nAll\n", "garbage"} {
		rec := runner.NewRecorder().On(profiles, profilesTool)
		g := newGate(rec, 0, "SunOS")

		require.NoError(t, g.Authorize(defaultReqs))
		require.NoError(t, g.Authorize(nil))
		assert.Empty(t, rec.Calls(), "superuser check must not query profiles")
	}
}

func TestAuthorize_SingleProfileTerm(t *testing.T) {
	rec := runner.NewRecorder().On("Basic Solaris User\n  Zone Management  \nAll\n", profilesTool)
	g := newGate(rec, 1001, "SunOS")

	require.NoError(t, g.Authorize(defaultReqs))
	assert.Equal(t, [][]string{{profilesTool}}, rec.Calls())
}

func TestAuthorize_ConjunctiveTerm(t *testing.T) {
	reqs := privilege.NewRequirements([][]string{
		{"Zone Security", "Zone Configuration"},
	})

	partial := newGate(runner.NewRecorder().On("Zone Security\n", profilesTool), 1001, "SunOS")
	err := partial.Authorize(reqs)
	require.ErrorIs(t, err, errclass.ErrNotAuthorized)

	full := newGate(runner.NewRecorder().On("Zone Configuration\nZone Security\n", profilesTool), 1001, "SunOS")
	require.NoError(t, full.Authorize(reqs))
}

func TestAuthorize_NoMatch(t *testing.T) {
	rec := runner.NewRecorder().On("Basic Solaris User\nAll\n", profilesTool)
	g := newGate(rec, 1001, "SunOS")

	err := g.Authorize(defaultReqs)
	var ae *errclass.AuthorizationError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, []string{"Primary Administrator", "Zone Management"}, ae.Required)
	assert.Equal(t, []string{"Basic Solaris User", "All"}, ae.Held)
}

func TestAuthorize_NonSunOSSkipsProfiles(t *testing.T) {
	rec := runner.NewRecorder().On("Zone Management\n", profilesTool)
	g := newGate(rec, 1001, "Linux")

	err := g.Authorize(defaultReqs)
	require.ErrorIs(t, err, errclass.ErrNotAuthorized)
	assert.Empty(t, rec.Calls())
}

func TestAuthorize_EmptyRequirementsOnlyRoot(t *testing.T) {
	rec := runner.NewRecorder().On("Zone Management\n", profilesTool)
	g := newGate(rec, 1001, "SunOS")

	require.ErrorIs(t, g.Authorize(nil), errclass.ErrNotAuthorized)
	assert.Empty(t, rec.Calls())
}

func TestAuthorize_ProfileQueryFails(t *testing.T) {
	rec := runner.NewRecorder().Fail(2, "profiles: not found", profilesTool)
	g := newGate(rec, 1001, "SunOS")

	err := g.Authorize(defaultReqs)
	require.ErrorIs(t, err, errclass.ErrExecFailed)
	assert.NotErrorIs(t, err, errclass.ErrNotAuthorized)
}

func TestRequirements_SatisfiedBy(t *testing.T) {
	reqs := privilege.Requirements{
		{"A"},
		{"B", "C"},
	}
	assert.True(t, reqs.SatisfiedBy([]string{"A"}))
	assert.True(t, reqs.SatisfiedBy([]string{"C", "B"}))
	assert.False(t, reqs.SatisfiedBy([]string{"B"}))
	assert.False(t, reqs.SatisfiedBy(nil))
	assert.False(t, privilege.Requirements{{}}.SatisfiedBy([]string{"A"}))
	assert.Equal(t, []string{"A", "B + C"}, reqs.Strings())
}
