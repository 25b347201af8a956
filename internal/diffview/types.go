package diffview

// UnknownModified marks a hunk whose file metadata could not be read.
const UnknownModified = "unknown"

// UnknownFile names a segment whose old and new paths are both missing.
const UnknownFile = "Unknown file"

type HunkStats struct {
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// Hunk is one @@ block of a file diff. Lines holds the raw body in order,
// without the header and without "\ No newline" notices.
type Hunk struct {
	FileName string    `json:"file_name"`
	FileExt  string    `json:"file_ext"`
	Header   string    `json:"hunk_header"`
	Lines    []string  `json:"hunk_lines"`
	ID       string    `json:"hunk_id"`
	Stats    HunkStats `json:"stats"`
	OldStart int       `json:"old_start"`
	NewStart int       `json:"new_start"`
}

type TotalStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Files   int `json:"files"`
}

type DiffResult struct {
	Hunks      []Hunk     `json:"hunks"`
	TotalStats TotalStats `json:"total_stats"`
}

// Empty is a result with no hunks and zero totals.
func Empty() DiffResult {
	return DiffResult{Hunks: []Hunk{}}
}
