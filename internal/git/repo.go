package git

import (
	"context"
	"strings"
)

func DiscoverRepoRoot(ctx context.Context, r Runner, cwd string) (string, error) {
	out, err := r.Run(ctx, cwd, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func DiscoverGitDir(ctx context.Context, r Runner, cwd string) (string, error) {
	out, err := r.Run(ctx, cwd, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
