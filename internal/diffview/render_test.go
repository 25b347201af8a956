package diffview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func sampleHunk() Hunk {
	return Hunk{
		FileName: "main.go",
		FileExt:  "go",
		Header:   "@@ -10,3 +10,3 @@",
		Lines:    []string{" keep", "-old", "+new", " tail"},
		ID:       "main.go-0",
		Stats:    HunkStats{Added: 1, Removed: 1, Modified: UnknownModified},
		OldStart: 10,
		NewStart: 10,
	}
}

func TestRenderHunkBodyNumbersLines(t *testing.T) {
	lines := RenderHunkBody(sampleHunk(), RenderOptions{Width: 80})
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	want := []string{
		" 10  10   keep",
		" 11       - old",
		"      11 + new",
		" 12  12   tail",
	}
	for i, line := range lines {
		plain := ansi.Strip(line)
		if strings.Join(strings.Fields(plain), " ") != strings.Join(strings.Fields(want[i]), " ") {
			t.Fatalf("line %d = %q, want %q", i, plain, want[i])
		}
	}
}

func TestRenderHunkBodyTruncatesToWidth(t *testing.T) {
	h := sampleHunk()
	h.Lines = []string{"+" + strings.Repeat("x", 200)}
	lines := RenderHunkBody(h, RenderOptions{Width: 30})
	if w := ansi.StringWidth(lines[0]); w > 30 {
		t.Fatalf("rendered width = %d, want <= 30", w)
	}
}

func TestRenderResultEmpty(t *testing.T) {
	out := ansi.Strip(RenderResult(Empty(), RenderOptions{}))
	if out != "No changes." {
		t.Fatalf("RenderResult(empty) = %q", out)
	}
}

func TestRenderResultGroupsByFile(t *testing.T) {
	a := sampleHunk()
	b := sampleHunk()
	b.ID = "main.go-1"
	c := sampleHunk()
	c.FileName = "other.go"
	result := DiffResult{Hunks: []Hunk{a, b, c}, TotalStats: TotalStats{Added: 3, Removed: 3, Files: 2}}

	out := ansi.Strip(RenderResult(result, RenderOptions{Width: 80}))
	if n := strings.Count(out, "main.go (metadata unknown)"); n != 1 {
		t.Fatalf("expected one main.go file header, got %d in:\n%s", n, out)
	}
	if !strings.Contains(out, "other.go (metadata unknown)") {
		t.Fatalf("missing other.go header in:\n%s", out)
	}
	if !strings.HasSuffix(out, "2 files changed, +3 -3") {
		t.Fatalf("missing summary in:\n%s", out)
	}
}

func TestSummarySingular(t *testing.T) {
	if got := Summary(TotalStats{Added: 1, Files: 1}); got != "1 file changed, +1 -0" {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestFormatMeta(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	got := FormatMeta(HunkStats{Size: 2048, Modified: "2024-05-01T10:00:00+00:00"}, now)
	if got != "(2.0 kB, modified 2 hours ago)" {
		t.Fatalf("FormatMeta() = %q", got)
	}
	if got := FormatMeta(HunkStats{Modified: UnknownModified}, now); got != "(metadata unknown)" {
		t.Fatalf("FormatMeta(unknown) = %q", got)
	}
}

func TestPatchText(t *testing.T) {
	want := "--- a/main.go\n+++ b/main.go\n@@ -10,3 +10,3 @@\n keep\n-old\n+new\n tail\n"
	if got := PatchText(sampleHunk()); got != want {
		t.Fatalf("PatchText() = %q, want %q", got, want)
	}
	reparsed := Parse("diff --git a/main.go b/main.go\n" + PatchText(sampleHunk()))
	if len(reparsed.Hunks) != 1 || reparsed.Hunks[0].Stats.Added != 1 {
		t.Fatalf("patch text does not round-trip: %+v", reparsed)
	}
}

func TestHighlighterLanguageAndPassthrough(t *testing.T) {
	h := NewHighlighter("monokai", false)
	if got := h.Language("cmd/main.go"); got != "Go" {
		t.Fatalf("Language(main.go) = %q, want Go", got)
	}
	if got := h.Language(UnknownFile); got != "" {
		t.Fatalf("Language(unknown) = %q, want empty", got)
	}
	if got := h.Line("func main() {}", "main.go"); got != "func main() {}" {
		t.Fatalf("disabled highlighter changed text: %q", got)
	}

	enabled := NewHighlighter("no-such-style", true)
	if got := ansi.Strip(enabled.Line("x := 1", "main.go")); got != "x := 1" {
		t.Fatalf("highlighted text lost content: %q", got)
	}
}
