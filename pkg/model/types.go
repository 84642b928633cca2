package model

import (
	"slices"
	"strings"
)

// State is a zone lifecycle state as printed by the zone-admin tool.
type State string

const (
	StateConfigured State = "configured" // not yet installed, or detached
	StateIncomplete State = "incomplete" // mid install/uninstall
	StateInstalled  State = "installed"  // on disk, halted
	StateReady      State = "ready"      // kernel identity, no user process
	StateRunning    State = "running"

	// StateUnknown covers transient states (shutting_down, down, mounted)
	// and anything else the tool may print. It never satisfies a guard.
	StateUnknown State = "unknown"
)

// ParseState converts raw listing text to a State.
// Returns StateUnknown for unrecognized values.
func ParseState(s string) State {
	switch State(s) {
	case StateConfigured, StateIncomplete, StateInstalled, StateReady, StateRunning:
		return State(s)
	default:
		return StateUnknown
	}
}

func (s State) String() string {
	return string(s)
}

// StateSet is an allowed-state set used by lifecycle guards.
type StateSet []State

// Contains reports whether s is a member of the set.
func (ss StateSet) Contains(s State) bool {
	return slices.Contains(ss, s)
}

// Strings renders the set for error messages.
func (ss StateSet) Strings() []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func (ss StateSet) String() string {
	return "{" + strings.Join(ss.Strings(), ", ") + "}"
}

// Operation names a zone operation. The value doubles as the audit event type.
type Operation string

const (
	OpCreate         Operation = "create"
	OpInstall        Operation = "install"
	OpUninstall      Operation = "uninstall"
	OpBoot           Operation = "boot"
	OpReady          Operation = "ready"
	OpShutdown       Operation = "shutdown"
	OpHalt           Operation = "halt"
	OpReboot         Operation = "reboot"
	OpDelete         Operation = "delete"
	OpClone          Operation = "clone"
	OpExecute        Operation = "execute"
	OpAddProperty    Operation = "add_property"
	OpRemoveProperty Operation = "remove_property"
	OpConfigure      Operation = "configure"
)
