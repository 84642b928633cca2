// Package privilege decides whether the caller may run mutating zone
// commands: either the superuser, or a holder of the required RBAC
// profiles as reported by the profile-listing tool.
package privilege

import (
	"fmt"
	"strings"

	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/pkg/errclass"
)

// Term is satisfied when every profile named in it is held.
type Term []string

// Requirements is a disjunction of terms: any one satisfied term grants access.
type Requirements []Term

// NewRequirements converts the config representation.
func NewRequirements(terms [][]string) Requirements {
	reqs := make(Requirements, 0, len(terms))
	for _, t := range terms {
		reqs = append(reqs, Term(t))
	}
	return reqs
}

// SatisfiedBy reports whether held contains every name in the term.
func (t Term) SatisfiedBy(held map[string]bool) bool {
	if len(t) == 0 {
		return false
	}
	for _, name := range t {
		if !held[name] {
			return false
		}
	}
	return true
}

func (t Term) String() string {
	return strings.Join(t, " + ")
}

// SatisfiedBy reports whether any term is satisfied by the held profiles.
func (rs Requirements) SatisfiedBy(held []string) bool {
	set := make(map[string]bool, len(held))
	for _, h := range held {
		set[h] = true
	}
	for _, t := range rs {
		if t.SatisfiedBy(set) {
			return true
		}
	}
	return false
}

// Strings renders each term for error messages.
func (rs Requirements) Strings() []string {
	out := make([]string, len(rs))
	for i, t := range rs {
		out[i] = t.String()
	}
	return out
}

// Gate answers authorization questions for the current process.
type Gate struct {
	runner       runner.Runner
	profilesTool string

	// Geteuid and Sysname default to the host; tests replace them.
	Geteuid func() int
	Sysname func() (string, error)
}

// NewGate creates a gate that queries profiles with the given tool.
func NewGate(r runner.Runner, profilesTool string) *Gate {
	return &Gate{
		runner:       r,
		profilesTool: profilesTool,
		Geteuid:      hostEUID,
		Sysname:      hostSysname,
	}
}

// IsSuperuser reports whether the effective uid is 0.
func (g *Gate) IsSuperuser() bool {
	return g.Geteuid() == 0
}

// Profiles returns the caller's profile names. On hosts without RBAC
// profiles (anything but SunOS) it returns nil without running a command.
// The query itself is never gated.
func (g *Gate) Profiles() ([]string, error) {
	sys, err := g.Sysname()
	if err != nil {
		return nil, fmt.Errorf("uname: %w", err)
	}
	if sys != "SunOS" {
		return nil, nil
	}

	out, err := g.runner.Run([]string{g.profilesTool})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return parseProfiles(string(out)), nil
}

// Authorize returns nil when the caller is the superuser or holds one of
// the required terms, and *errclass.AuthorizationError otherwise.
func (g *Gate) Authorize(required Requirements) error {
	if g.IsSuperuser() {
		return nil
	}

	var held []string
	if len(required) > 0 {
		var err error
		held, err = g.Profiles()
		if err != nil {
			return err
		}
		if required.SatisfiedBy(held) {
			return nil
		}
	}

	return &errclass.AuthorizationError{Required: required.Strings(), Held: held}
}

func parseProfiles(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names
}
