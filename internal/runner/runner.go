// Package runner executes argument vectors against the host OS. It is the
// only place zonectl spawns processes.
package runner

import (
	"bytes"
	"errors"
	"io/fs"
	"os/exec"
	"slices"

	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/logging"
)

// Runner runs argv[0] with argv[1:] as arguments and returns captured
// stdout. A non-zero exit is reported as *errclass.ExecutionError.
type Runner interface {
	Run(argv []string) ([]byte, error)
}

// ExecRunner runs commands on the local host via os/exec. No shell is
// involved, so arguments are passed through exactly as given.
// There is no timeout: a hung tool blocks the caller.
type ExecRunner struct {
	Logger *logging.Logger
}

// NewExecRunner creates an ExecRunner logging to the global logger.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Logger: logging.Global()}
}

// Run executes argv and returns stdout verbatim, trailing newline included.
func (r *ExecRunner) Run(argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errclass.ErrConfigInvalid.WithMessage("empty argument vector")
	}
	if r.Logger != nil {
		r.Logger.Debug("exec", map[string]any{"argv": argv})
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	// 127 follows the shell convention for a tool that never started.
	exitCode := 1
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		exitCode = exitErr.ExitCode()
	case cmd.ProcessState == nil, errors.Is(err, fs.ErrNotExist):
		exitCode = 127
	}
	return stdout.Bytes(), &errclass.ExecutionError{
		Argv:     slices.Clone(argv),
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Err:      err,
	}
}
