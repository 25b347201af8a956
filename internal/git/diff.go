package git

import (
	"context"
	"runtime"
)

func nullDevice(goos string) string {
	if goos == "windows" {
		return "NUL"
	}
	return "/dev/null"
}

// untrackedDiff renders an untracked file as wholly added by diffing it
// against the null device.
func untrackedDiff(ctx context.Context, r Runner, dir, contextArg, path string) (string, error) {
	return r.Run(ctx, dir, "diff", "--no-index", contextArg, "--", nullDevice(runtime.GOOS), path)
}
