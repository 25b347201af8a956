package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"hunkdiff/internal/diffview"
	"hunkdiff/internal/git"
)

type fakeService struct {
	result   diffview.DiffResult
	err      error
	requests []git.ComparisonRequest
	opened   []string
	openLine int
}

func (f *fakeService) Diff(_ context.Context, _ string, req git.ComparisonRequest) (diffview.DiffResult, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func (f *fakeService) Open(_ context.Context, filePath, _ string, line int) error {
	f.opened = append(f.opened, filePath)
	f.openLine = line
	return nil
}

type fakeCopier struct {
	copied []diffview.Hunk
	err    error
}

func (f *fakeCopier) CopyHunk(_ context.Context, h diffview.Hunk) error {
	f.copied = append(f.copied, h)
	return f.err
}

func sampleResult() diffview.DiffResult {
	return diffview.Parse(`diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,2 +1,2 @@
-x
+y
 z
@@ -20,1 +20,2 @@
 w
+v
diff --git a/b.txt b/b.txt
--- a/b.txt
+++ b/b.txt
@@ -3,1 +3,1 @@
-old
+new
`)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func loadedModel(t *testing.T, svc *fakeService, copier *fakeCopier) Model {
	t.Helper()
	svc.result = sampleResult()
	m := NewModel(Options{RepoPath: "/repo", Request: git.DefaultComparison(), Service: svc, Copier: copier})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	msg := m.loadDiffCmd(m.loadSeq)()
	m, _ = update(t, m, msg)
	return m
}

func TestLoadPopulatesHunks(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)

	if len(m.result.Hunks) != 3 {
		t.Fatalf("hunks = %d want 3", len(m.result.Hunks))
	}
	if len(svc.requests) != 1 || svc.requests[0].Source != git.SourceWorking {
		t.Fatalf("requests = %+v", svc.requests)
	}
	view := m.View()
	if !strings.Contains(view, "a.go") || !strings.Contains(view, "b.txt") {
		t.Fatalf("view missing file names:\n%s", view)
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	m := loadedModel(t, &fakeService{}, nil)

	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d want 2", m.cursor)
	}
	m, _ = update(t, m, runeKey("g"))
	m, _ = update(t, m, runeKey("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d want 0", m.cursor)
	}
	m, _ = update(t, m, runeKey("G"))
	if h, _ := m.selectedHunk(); h.FileName != "b.txt" {
		t.Fatalf("selected %q want b.txt", h.FileName)
	}
}

func TestCycleSourceReloadsStaged(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)

	m, cmd := update(t, m, runeKey("s"))
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	m, _ = update(t, m, cmd())
	last := svc.requests[len(svc.requests)-1]
	if last.Source != git.SourceStaged {
		t.Fatalf("source = %q want staged", last.Source)
	}

	_, cmd = update(t, m, runeKey("s"))
	cmd()
	if last := svc.requests[len(svc.requests)-1]; last.Source != git.SourceWorking {
		t.Fatalf("source = %q want working", last.Source)
	}
}

func TestToggleUntrackedReloads(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)

	_, cmd := update(t, m, runeKey("u"))
	cmd()
	if last := svc.requests[len(svc.requests)-1]; !last.IncludeUntracked {
		t.Fatal("expected untracked files to be requested")
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)

	m, _ = update(t, m, runeKey("r"))
	m, _ = update(t, m, diffLoadedMsg{seq: m.loadSeq - 1, result: diffview.Empty()})
	if len(m.result.Hunks) != 3 || !m.loading {
		t.Fatalf("stale result applied: hunks=%d loading=%v", len(m.result.Hunks), m.loading)
	}
}

func TestReloadKeepsSelection(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)
	m, _ = update(t, m, runeKey("G"))

	m, cmd := update(t, m, runeKey("r"))
	m, _ = update(t, m, cmd())
	if h, _ := m.selectedHunk(); h.ID != "b.txt-0" {
		t.Fatalf("selected %q after reload", h.ID)
	}
}

func TestOpenEditorUsesNewStart(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)
	m, _ = update(t, m, runeKey("j"))

	m, cmd := update(t, m, runeKey("o"))
	if cmd == nil {
		t.Fatal("expected open command")
	}
	m, _ = update(t, m, cmd())
	if len(svc.opened) != 1 || svc.opened[0] != "a.go" || svc.openLine != 20 {
		t.Fatalf("opened %v at %d", svc.opened, svc.openLine)
	}
	if !strings.Contains(m.alertMsg, "a.go") {
		t.Fatalf("alert = %q", m.alertMsg)
	}
}

func TestCopyReportsFailure(t *testing.T) {
	copier := &fakeCopier{err: errors.New("no xclip")}
	m := loadedModel(t, &fakeService{}, copier)

	m, cmd := update(t, m, runeKey("y"))
	m, _ = update(t, m, cmd())
	if len(copier.copied) != 1 || copier.copied[0].ID != "a.go-0" {
		t.Fatalf("copied %+v", copier.copied)
	}
	if !strings.Contains(m.alertMsg, "no xclip") {
		t.Fatalf("alert = %q", m.alertMsg)
	}
}

func TestLoadErrorShowsMessage(t *testing.T) {
	svc := &fakeService{}
	m := loadedModel(t, svc, nil)
	m, _ = update(t, m, runeKey("r"))
	m, _ = update(t, m, diffLoadedMsg{seq: m.loadSeq, err: git.ErrNotARepository})

	if len(m.result.Hunks) != 0 {
		t.Fatalf("expected no hunks after error")
	}
	if !strings.Contains(m.View(), "not a git repository") {
		t.Fatal("view should show the load error")
	}
}
