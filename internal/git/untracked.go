package git

import (
	"bytes"
	"context"
)

// ListUntracked returns untracked, non-ignored paths relative to dir in the
// order git reports them. Run it from the top of the work tree to get paths
// that line up with git diff output.
func ListUntracked(ctx context.Context, r Runner, dir string) ([]string, error) {
	out, err := r.Run(ctx, dir, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, err
	}
	return parseNULList([]byte(out)), nil
}

// parseNULList splits -z output. Names may contain any byte but NUL.
func parseNULList(data []byte) []string {
	records := bytes.Split(data, []byte{0})
	paths := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		paths = append(paths, string(rec))
	}
	return paths
}
