package runner

import (
	"slices"
	"sync"

	"github.com/jvs-project/zonectl/pkg/errclass"
)

type scripted struct {
	prefix []string
	stdout []byte
	err    error
}

// Recorder is a Runner that records every argv and answers from a script
// instead of spawning processes. Unscripted commands succeed with empty
// output.
type Recorder struct {
	mu      sync.Mutex
	calls   [][]string
	scripts []scripted
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// On scripts stdout for any argv starting with prefix. Later scripts win
// over earlier ones for the same prefix; longer prefixes win over shorter.
func (r *Recorder) On(stdout string, prefix ...string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts = append(r.scripts, scripted{prefix: prefix, stdout: []byte(stdout)})
	return r
}

// Fail scripts a non-zero exit for any argv starting with prefix.
func (r *Recorder) Fail(exitCode int, stderr string, prefix ...string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts = append(r.scripts, scripted{
		prefix: prefix,
		err: &errclass.ExecutionError{
			Argv:     prefix,
			ExitCode: exitCode,
			Stderr:   []byte(stderr),
		},
	})
	return r
}

// Run records argv and returns the best matching scripted answer.
func (r *Recorder) Run(argv []string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, slices.Clone(argv))

	best := -1
	for i, s := range r.scripts {
		if len(s.prefix) > len(argv) || !slices.Equal(argv[:len(s.prefix)], s.prefix) {
			continue
		}
		if best < 0 || len(s.prefix) >= len(r.scripts[best].prefix) {
			best = i
		}
	}
	if best < 0 {
		return nil, nil
	}

	s := r.scripts[best]
	if ee, ok := s.err.(*errclass.ExecutionError); ok {
		failed := *ee
		failed.Argv = slices.Clone(argv)
		return nil, &failed
	}
	return slices.Clone(s.stdout), s.err
}

// Calls returns a copy of every argv run so far, in order.
func (r *Recorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = slices.Clone(c)
	}
	return out
}

// Reset forgets recorded calls but keeps the script.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
