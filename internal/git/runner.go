package git

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"hunkdiff/internal/util"
)

// ErrNotARepository is returned when the directory is not inside a git work
// tree, or git itself cannot be run there.
var ErrNotARepository = errors.New("not a git repository or git not found")

// InvocationError is a git call that failed for a reason other than an
// expected "differences found" exit status.
type InvocationError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("git command failed: git %s", strings.Join(e.Args, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Runner executes a git subcommand in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary.
type ExecRunner struct {
	GitBin string
}

func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecRunner{GitBin: gitBin}
}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	// --no-index exits 1 when the two paths differ.
	var allowed []int
	if slices.Contains(args, "--no-index") {
		allowed = []int{1}
	}

	out, err := util.RunAllowingExit(ctx, dir, allowed, e.GitBin, args...)
	if err == nil {
		return out, nil
	}

	invErr := &InvocationError{Args: args, ExitCode: -1, Err: err}
	var cmdErr *util.CommandError
	if errors.As(err, &cmdErr) {
		invErr.ExitCode = cmdErr.ExitCode
		invErr.Output = cmdErr.Stderr
		invErr.Err = cmdErr.Err
	}
	return "", invErr
}

// IsRepository probes dir with a single rev-parse call.
func IsRepository(ctx context.Context, r Runner, dir string) bool {
	_, err := r.Run(ctx, dir, "rev-parse", "--git-dir")
	return err == nil
}
