package diffview

import (
	"regexp"
	"strconv"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

var rangeRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// headerStarts returns the old and new starting line numbers of a hunk,
// or 1, 1 when the header does not parse. body lets go-diff check the
// header against its line counts; a short or truncated body falls back to
// reading the header alone.
func headerStarts(header string, body []string) (int, int) {
	text := header + "\n"
	if len(body) > 0 {
		text += strings.Join(body, "\n") + "\n"
	}
	if hunks, err := sgdiff.ParseHunks([]byte(text)); err == nil && len(hunks) > 0 {
		return int(hunks[0].OrigStartLine), int(hunks[0].NewStartLine)
	}

	m := rangeRe.FindStringSubmatch(header)
	if m == nil {
		return 1, 1
	}
	oldStart, errOld := strconv.Atoi(m[1])
	newStart, errNew := strconv.Atoi(m[2])
	if errOld != nil || errNew != nil {
		return 1, 1
	}
	return oldStart, newStart
}
