package git

import (
	"context"
	"strings"
	"sync"
)

type fakeResponse struct {
	out string
	err error
}

// fakeRunner answers git calls from a table keyed by the joined arguments and
// records every call with the directory it ran in. Unknown calls succeed
// with empty output.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     [][]string
	dirs      []string
}

func newFakeRunner() *fakeRunner {
	f := &fakeRunner{responses: make(map[string]fakeResponse)}
	f.on("rev-parse --git-dir", ".git\n", nil)
	return f
}

func (f *fakeRunner) on(args string, out string, err error) *fakeRunner {
	f.responses[args] = fakeResponse{out: out, err: err}
	return f
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), args...))
	f.dirs = append(f.dirs, dir)
	resp := f.responses[strings.Join(args, " ")]
	return resp.out, resp.err
}

func (f *fakeRunner) joinedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

// dirOf returns the directory of the first call matching args, or "".
func (f *fakeRunner) dirOf(args string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.calls {
		if strings.Join(c, " ") == args {
			return f.dirs[i]
		}
	}
	return ""
}
