package diffview

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	fileMarker = "diff --git"
	hunkMarker = "@@"
	devNull    = "/dev/null"
)

var hunkHeaderRe = regexp.MustCompile(`^(@@[^@]*@@)`)

// Parse turns unified diff text into hunks with per-hunk and total line
// counts. It never fails: unrecognised structure yields fewer hunks or an
// UnknownFile name. Size and Modified are left for filemeta to fill in.
func Parse(raw string) DiffResult {
	result := Empty()
	if strings.TrimSpace(raw) == "" {
		return result
	}

	for _, segment := range splitFileSegments(splitLines(raw)) {
		result.Hunks = append(result.Hunks, parseSegment(segment)...)
	}
	result.TotalStats = totals(result.Hunks)
	return result
}

func splitLines(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitFileSegments groups lines by file. The "diff --git" line itself is
// dropped, as is everything before the first one.
func splitFileSegments(lines []string) [][]string {
	var segments [][]string
	var current []string
	started := false
	for _, line := range lines {
		if strings.HasPrefix(line, fileMarker) {
			if started {
				segments = append(segments, current)
			}
			current = nil
			started = true
			continue
		}
		if started {
			current = append(current, line)
		}
	}
	if started {
		segments = append(segments, current)
	}
	return segments
}

func parseSegment(lines []string) []Hunk {
	name := extractFileName(lines)
	ext := fileExtension(name)

	var hunks []Hunk
	for i := 0; i < len(lines); {
		if !strings.HasPrefix(lines[i], hunkMarker) {
			i++
			continue
		}

		header := hunkHeader(lines[i])
		body := make([]string, 0)
		for i++; i < len(lines) && !strings.HasPrefix(lines[i], hunkMarker); i++ {
			if isNoNewlineNotice(lines[i]) {
				continue
			}
			body = append(body, lines[i])
		}

		oldStart, newStart := headerStarts(header, body)
		added, removed := countChanges(body)
		hunks = append(hunks, Hunk{
			FileName: name,
			FileExt:  ext,
			Header:   header,
			Lines:    body,
			ID:       HunkID(name, len(hunks)),
			Stats: HunkStats{
				Added:    added,
				Removed:  removed,
				Modified: UnknownModified,
			},
			OldStart: oldStart,
			NewStart: newStart,
		})
	}
	return hunks
}

// HunkID identifies the index-th hunk of a file. IDs repeat when two segments
// share a file name.
func HunkID(fileName string, index int) string {
	return fmt.Sprintf("%s-%d", fileName, index)
}

func extractFileName(lines []string) string {
	if name, ok := firstPath(lines, "+++ ", "b/"); ok {
		return name
	}
	if name, ok := firstPath(lines, "--- ", "a/"); ok {
		return name
	}
	return UnknownFile
}

// firstPath looks only at the first line carrying marker, as git emits one
// per file.
func firstPath(lines []string, marker, prefix string) (string, bool) {
	for _, line := range lines {
		if !strings.HasPrefix(line, marker) {
			continue
		}
		if strings.Contains(line, devNull) {
			return "", false
		}
		p := strings.TrimPrefix(line, marker)
		if tab := strings.IndexByte(p, '\t'); tab >= 0 {
			p = p[:tab]
		}
		p = strings.TrimPrefix(p, prefix)
		if p == "" {
			return "", false
		}
		return p, true
	}
	return "", false
}

func fileExtension(name string) string {
	if name == UnknownFile {
		return ""
	}
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

func hunkHeader(line string) string {
	if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return line
}

func isNoNewlineNotice(line string) bool {
	return strings.HasPrefix(line, `\`)
}

func countChanges(body []string) (added, removed int) {
	for _, line := range body {
		switch {
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

func totals(hunks []Hunk) TotalStats {
	var t TotalStats
	files := make(map[string]struct{})
	for _, h := range hunks {
		t.Added += h.Stats.Added
		t.Removed += h.Stats.Removed
		files[h.FileName] = struct{}{}
	}
	t.Files = len(files)
	return t
}
