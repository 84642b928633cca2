package errclass

import (
	"fmt"
	"strings"
)

// ZoneError is a stable, machine-readable error class.
type ZoneError struct {
	Code    string
	Message string

	// Class links a fine-grained code to the broader class it belongs to,
	// so errors.Is(err, ErrConfigInvalid) also matches ErrUnknownAttribute.
	Class *ZoneError
}

func (e *ZoneError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ZoneError) Is(target error) bool {
	t, ok := target.(*ZoneError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Class != nil && e.Class.Code == t.Code
}

// WithMessage returns a new ZoneError with the same Code but a specific message.
func (e *ZoneError) WithMessage(msg string) *ZoneError {
	return &ZoneError{Code: e.Code, Message: msg, Class: e.Class}
}

// WithMessagef returns a new ZoneError with a formatted message.
func (e *ZoneError) WithMessagef(format string, args ...any) *ZoneError {
	return &ZoneError{Code: e.Code, Message: fmt.Sprintf(format, args...), Class: e.Class}
}

// Error classes. The first four are the top-level taxonomy; the rest are
// configuration failures detected before any external command runs.
var (
	ErrNotAuthorized = &ZoneError{Code: "E_NOT_AUTHORIZED"}
	ErrInvalidState  = &ZoneError{Code: "E_INVALID_STATE"}
	ErrExecFailed    = &ZoneError{Code: "E_EXEC_FAILED"}
	ErrConfigInvalid = &ZoneError{Code: "E_CONFIG_INVALID"}

	ErrNameInvalid      = &ZoneError{Code: "E_NAME_INVALID", Class: ErrConfigInvalid}
	ErrTemplateMissing  = &ZoneError{Code: "E_TEMPLATE_MISSING", Class: ErrConfigInvalid}
	ErrZoneExists       = &ZoneError{Code: "E_ZONE_EXISTS", Class: ErrConfigInvalid}
	ErrRecordMalformed  = &ZoneError{Code: "E_RECORD_MALFORMED", Class: ErrConfigInvalid}
	ErrUnknownAttribute = &ZoneError{Code: "E_UNKNOWN_ATTRIBUTE", Class: ErrConfigInvalid}
	ErrPropertySchema   = &ZoneError{Code: "E_PROPERTY_SCHEMA", Class: ErrConfigInvalid}
)

// AuthorizationError reports a caller that is neither the superuser nor
// holds any of the required profile terms.
type AuthorizationError struct {
	Required []string // rendered terms, e.g. "Zone Management" or "A+B"
	Held     []string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: not enough privileges: requires one of [%s]",
		ErrNotAuthorized.Code, strings.Join(e.Required, ", "))
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrNotAuthorized
}

// StateError reports an operation attempted while the zone's live state is
// outside the operation's allowed set.
type StateError struct {
	Zone      string
	Operation string
	Allowed   []string
	Observed  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: zone %s: %s requires state in {%s}, observed %s",
		ErrInvalidState.Code, e.Zone, e.Operation, strings.Join(e.Allowed, ", "), e.Observed)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ExecutionError reports a non-zero exit from an external tool. Streams are
// kept verbatim.
type ExecutionError struct {
	Argv     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v exited with code %d: stderr: %q stdout: %q",
		ErrExecFailed.Code, e.Argv, e.ExitCode, e.Stderr, e.Stdout)
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecFailed
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
