package diffview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

var (
	fileStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
)

// RenderOptions controls terminal rendering.
type RenderOptions struct {
	Width       int
	Highlighter *Highlighter
	Now         time.Time
}

// RenderHunkBody renders body lines with old/new line numbers, truncated to
// width.
func RenderHunkBody(h Hunk, opts RenderOptions) []string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	oldLn, newLn := h.OldStart, h.NewStart
	numW := maxInt(3, digits(maxInt(oldLn, newLn)+len(h.Lines)))
	out := make([]string, 0, len(h.Lines))
	for _, line := range h.Lines {
		marker, text := splitMarker(line)
		oldNum, newNum := "", ""
		var style *lipgloss.Style
		switch marker {
		case '+':
			newNum = fmt.Sprint(newLn)
			newLn++
			style = &addStyle
		case '-':
			oldNum = fmt.Sprint(oldLn)
			oldLn++
			style = &delStyle
		default:
			oldNum = fmt.Sprint(oldLn)
			newNum = fmt.Sprint(newLn)
			oldLn++
			newLn++
		}

		gutter := mutedStyle.Render(fmt.Sprintf("%*s %*s ", numW, oldNum, numW, newNum))
		mark := string(marker)
		if style != nil {
			mark = style.Render(mark)
		}
		code := opts.Highlighter.Line(text, h.FileName)
		out = append(out, ansi.Truncate(gutter+mark+" "+code, width, "…"))
	}
	return out
}

// RenderHunk renders a hunk header line followed by its body.
func RenderHunk(h Hunk, opts RenderOptions) string {
	title := fmt.Sprintf("%s %s %s",
		headerStyle.Render(h.Header),
		addStyle.Render(fmt.Sprintf("+%d", h.Stats.Added)),
		delStyle.Render(fmt.Sprintf("-%d", h.Stats.Removed)),
	)
	lines := append([]string{title}, RenderHunkBody(h, opts)...)
	return strings.Join(lines, "\n")
}

// RenderResult renders every hunk grouped by file, followed by a summary.
func RenderResult(r DiffResult, opts RenderOptions) string {
	if len(r.Hunks) == 0 {
		return mutedStyle.Render("No changes.")
	}

	var b strings.Builder
	current := ""
	for i, h := range r.Hunks {
		if i == 0 || h.FileName != current {
			if i > 0 {
				b.WriteString("\n")
			}
			current = h.FileName
			b.WriteString(fileStyle.Render(h.FileName))
			b.WriteString(" ")
			b.WriteString(mutedStyle.Render(FormatMeta(h.Stats, opts.Now)))
			b.WriteString("\n")
		}
		b.WriteString(RenderHunk(h, opts))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(Summary(r.TotalStats)))
	return b.String()
}

// Summary is a one-line description of the totals.
func Summary(t TotalStats) string {
	noun := "files"
	if t.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s changed, +%d -%d", t.Files, noun, t.Added, t.Removed)
}

// FormatMeta describes file size and modification time for humans.
func FormatMeta(s HunkStats, now time.Time) string {
	if s.Modified == UnknownModified || s.Modified == "" {
		return "(metadata unknown)"
	}
	size := humanize.Bytes(uint64(maxInt64(s.Size, 0)))
	modified, err := time.Parse(time.RFC3339, s.Modified)
	if err != nil {
		return fmt.Sprintf("(%s)", size)
	}
	if now.IsZero() {
		now = time.Now()
	}
	return fmt.Sprintf("(%s, modified %s)", size, humanize.RelTime(modified, now, "ago", "from now"))
}

// PatchText reassembles a hunk as unified diff text for copying.
func PatchText(h Hunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n%s\n", h.FileName, h.FileName, h.Header)
	for _, line := range h.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func splitMarker(line string) (rune, string) {
	if line == "" {
		return ' ', ""
	}
	switch line[0] {
	case '+', '-', ' ':
		return rune(line[0]), line[1:]
	}
	return ' ', line
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func digits(n int) int {
	if n <= 0 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}
