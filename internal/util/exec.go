package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError describes a process that could not be started or exited with
// a status the caller did not allow.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += " (" + e.Stderr + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

func Run(ctx context.Context, cwd string, name string, args ...string) (string, error) {
	return RunAllowingExit(ctx, cwd, nil, name, args...)
}

// RunAllowingExit returns stdout, treating the listed non-zero exit codes as
// success. Exit code -1 is reported when the process never started.
func RunAllowingExit(ctx context.Context, cwd string, allowed []int, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
		for _, ok := range allowed {
			if code == ok {
				return stdout.String(), nil
			}
		}
	}

	return "", &CommandError{
		Name:     name,
		Args:     args,
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
}
