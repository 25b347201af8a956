package util

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

func RunWithStdin(ctx context.Context, cwd, stdin, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Stdin = strings.NewReader(stdin)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return "", &CommandError{Name: name, Args: args, ExitCode: code, Stderr: strings.TrimSpace(out.String()), Err: err}
	}
	return out.String(), nil
}
