// Package filemeta attaches file size and modification time to parsed hunks.
// Metadata is advisory: every failure degrades to (0, "unknown").
package filemeta

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"hunkdiff/internal/diffview"
)

// TimestampLayout is RFC 3339 with an explicit numeric offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// StatFunc reports file information for an absolute path.
type StatFunc func(path string) (fs.FileInfo, error)

type Augmenter struct {
	stat StatFunc
}

func New() Augmenter {
	return Augmenter{stat: os.Stat}
}

func NewWithStat(stat StatFunc) Augmenter {
	if stat == nil {
		stat = os.Stat
	}
	return Augmenter{stat: stat}
}

// Lookup returns the size and formatted modification time of name under
// baseDir.
func (a Augmenter) Lookup(baseDir, name string) (int64, string) {
	if name == "" || name == diffview.UnknownFile {
		return 0, diffview.UnknownModified
	}
	stat := a.stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(filepath.Join(baseDir, filepath.FromSlash(name)))
	if err != nil || info.IsDir() {
		return 0, diffview.UnknownModified
	}
	return info.Size(), FormatTimestamp(info.ModTime())
}

// Augment fills Size and Modified on every hunk, stating each file once.
func (a Augmenter) Augment(r *diffview.DiffResult, baseDir string) {
	type meta struct {
		size     int64
		modified string
	}
	cache := make(map[string]meta)
	for i := range r.Hunks {
		h := &r.Hunks[i]
		m, ok := cache[h.FileName]
		if !ok {
			m.size, m.modified = a.Lookup(baseDir, h.FileName)
			cache[h.FileName] = m
		}
		h.Stats.Size = m.size
		h.Stats.Modified = m.modified
	}
}

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return diffview.UnknownModified
	}
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}
