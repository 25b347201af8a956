package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"hunkdiff/internal/diffview"
	"hunkdiff/internal/git"
)

type focusPane int

const (
	focusHunks focusPane = iota
	focusBody
)

const hunkListWidth = 44

// DiffService is what the browser needs from the review service.
type DiffService interface {
	Diff(ctx context.Context, repoPath string, req git.ComparisonRequest) (diffview.DiffResult, error)
	Open(ctx context.Context, filePath, workDir string, line int) error
}

// HunkCopier puts a hunk on the clipboard.
type HunkCopier interface {
	CopyHunk(ctx context.Context, h diffview.Hunk) error
}

type Options struct {
	RepoPath    string
	Request     git.ComparisonRequest
	Service     DiffService
	Copier      HunkCopier
	Watcher     *Watcher
	Highlighter *diffview.Highlighter
}

type diffLoadedMsg struct {
	seq    int
	result diffview.DiffResult
	err    error
}

type editorResultMsg struct {
	file string
	err  error
}

type clipboardResultMsg struct {
	err error
}

type alertTickMsg struct{}

// Model is the Bubble Tea state container for the hunk browser.
type Model struct {
	keys     KeyMap
	focus    focusPane
	repoPath string
	req      git.ComparisonRequest
	svc      DiffService
	copier   HunkCopier
	watcher  *Watcher
	hl       *diffview.Highlighter

	width  int
	height int
	ready  bool

	result     diffview.DiffResult
	cursor     int
	listScroll int
	listHidden bool
	body       viewport.Model
	bodyDirty  bool
	helpOpen   bool

	alertMsg   string
	alertUntil time.Time

	loadSeq int
	loading bool
	err     error
}

func NewModel(opts Options) Model {
	return Model{
		keys:     defaultKeyMap(),
		focus:    focusHunks,
		repoPath: opts.RepoPath,
		req:      opts.Request.Normalize(),
		svc:      opts.Service,
		copier:   opts.Copier,
		watcher:  opts.Watcher,
		hl:       opts.Highlighter,
		result:   diffview.Empty(),
		body:     viewport.New(1, 1),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadDiffCmd(m.loadSeq), alertTickCmd()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.WaitForChange())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizePanes()
		return m, nil

	case diffLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.result = diffview.Empty()
			m.cursor = 0
			m.bodyDirty = true
			m.refreshBody()
			return m, nil
		}
		selectedID := m.selectedID()
		m.result = msg.result
		m.cursor = indexOfHunk(m.result.Hunks, selectedID)
		m.listScroll = listWindow(m.cursor, m.listScroll, m.listHeight(), len(m.result.Hunks))
		m.bodyDirty = true
		m.refreshBody()
		return m, nil

	case repoChangedMsg:
		var cmd tea.Cmd
		m, cmd = m.reload()
		if m.watcher != nil {
			return m, tea.Batch(cmd, m.watcher.WaitForChange())
		}
		return m, cmd

	case watchErrMsg:
		if errors.Is(msg.err, errWatcherClosed) || m.watcher == nil {
			return m, nil
		}
		m.setAlert(fmt.Sprintf("watch: %v", msg.err))
		return m, m.watcher.WaitForChange()

	case editorResultMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("open failed: %v", msg.err))
			return m, nil
		}
		m.setAlert("Opened " + msg.file + " in editor.")
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("copy failed: %v", msg.err))
			return m, nil
		}
		m.setAlert("Copied hunk to clipboard.")
		return m, nil

	case alertTickMsg:
		if m.alertMsg != "" && !m.alertUntil.IsZero() && time.Now().After(m.alertUntil) {
			m.alertMsg = ""
			m.alertUntil = time.Time{}
		}
		return m, alertTickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.helpOpen = !m.helpOpen
			return m, nil
		case key.Matches(msg, m.keys.ToggleFocus):
			if m.focus == focusHunks {
				m.focus = focusBody
			} else {
				m.focus = focusHunks
				m.listHidden = false
			}
			return m, nil
		case key.Matches(msg, m.keys.HideList):
			m.listHidden = !m.listHidden
			if m.listHidden {
				m.focus = focusBody
			}
			m.resizePanes()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m.reload()
		case key.Matches(msg, m.keys.CycleSource):
			if m.req.Source == git.SourceWorking {
				m.req.Source = git.SourceStaged
			} else {
				m.req.Source = git.SourceWorking
			}
			m.setAlert("Showing " + m.comparisonLabel())
			return m.reload()
		case key.Matches(msg, m.keys.ToggleUntracked):
			m.req.IncludeUntracked = !m.req.IncludeUntracked
			if m.req.IncludeUntracked {
				m.setAlert("Including untracked files.")
			} else {
				m.setAlert("Hiding untracked files.")
			}
			return m.reload()
		case key.Matches(msg, m.keys.OpenEditor):
			h, ok := m.selectedHunk()
			if !ok {
				return m, nil
			}
			return m, m.openEditorCmd(h)
		case key.Matches(msg, m.keys.Copy):
			h, ok := m.selectedHunk()
			if !ok || m.copier == nil {
				return m, nil
			}
			return m, m.copyHunkCmd(h)
		}

		if m.focus == focusHunks {
			return m.updateHunkList(msg)
		}
		return m.updateBody(msg)
	}

	return m, nil
}

func (m Model) updateHunkList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := m.cursor
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.listHeight()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.listHeight()
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.result.Hunks) - 1
	default:
		return m, nil
	}
	m.clampCursor()
	m.listScroll = listWindow(m.cursor, m.listScroll, m.listHeight(), len(m.result.Hunks))
	if m.cursor != prev {
		m.bodyDirty = true
		m.refreshBody()
	}
	return m, nil
}

func (m Model) updateBody(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.body.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.body.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.body.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.body.HalfViewDown()
	case key.Matches(msg, m.keys.Top):
		m.body.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.body.GotoBottom()
	}
	return m, nil
}

func (m Model) reload() (Model, tea.Cmd) {
	m.loadSeq++
	m.loading = true
	return m, m.loadDiffCmd(m.loadSeq)
}

func (m Model) loadDiffCmd(seq int) tea.Cmd {
	svc := m.svc
	repo := m.repoPath
	req := m.req
	return func() tea.Msg {
		res, err := svc.Diff(context.Background(), repo, req)
		return diffLoadedMsg{seq: seq, result: res, err: err}
	}
}

func (m Model) openEditorCmd(h diffview.Hunk) tea.Cmd {
	svc := m.svc
	repo := m.repoPath
	return func() tea.Msg {
		err := svc.Open(context.Background(), h.FileName, repo, h.NewStart)
		return editorResultMsg{file: h.FileName, err: err}
	}
}

func (m Model) copyHunkCmd(h diffview.Hunk) tea.Cmd {
	copier := m.copier
	return func() tea.Msg {
		return clipboardResultMsg{err: copier.CopyHunk(context.Background(), h)}
	}
}

func (m Model) selectedHunk() (diffview.Hunk, bool) {
	if m.cursor < 0 || m.cursor >= len(m.result.Hunks) {
		return diffview.Hunk{}, false
	}
	return m.result.Hunks[m.cursor], true
}

func (m Model) selectedID() string {
	h, ok := m.selectedHunk()
	if !ok {
		return ""
	}
	return h.ID
}

// indexOfHunk finds id after a reload so the selection survives refreshes.
func indexOfHunk(hunks []diffview.Hunk, id string) int {
	if id == "" {
		return 0
	}
	for i, h := range hunks {
		if h.ID == id {
			return i
		}
	}
	return 0
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.result.Hunks) {
		m.cursor = len(m.result.Hunks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) comparisonLabel() string {
	label := m.req.Source + " vs " + m.req.Target
	if m.req.IncludeUntracked {
		label += " +untracked"
	}
	return label
}

func (m *Model) resizePanes() {
	_, rightW := paneWidths(m.width, hunkListWidth, m.listHidden)
	m.body.Width = max(1, rightW)
	m.body.Height = max(1, m.paneContentHeight()-2)
	m.bodyDirty = true
	m.refreshBody()
}

// paneContentHeight leaves room for the footer and the pane borders.
func (m Model) paneContentHeight() int {
	return max(1, m.height-2-2)
}

func (m Model) listHeight() int {
	return max(1, m.paneContentHeight()-2)
}

func (m *Model) refreshBody() {
	if !m.bodyDirty {
		return
	}
	m.bodyDirty = false

	switch {
	case m.err != nil:
		m.body.SetContent(fmt.Sprintf("Failed to load diff:\n%v", m.err))
	case len(m.result.Hunks) == 0:
		m.body.SetContent("No changes.")
	default:
		h, _ := m.selectedHunk()
		lines := diffview.RenderHunkBody(h, diffview.RenderOptions{
			Width:       m.body.Width,
			Highlighter: m.hl,
			Now:         time.Now(),
		})
		m.body.SetContent(strings.Join(lines, "\n"))
	}
	m.body.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	footer := m.renderFooter()
	height := m.paneContentHeight()
	leftW, rightW := paneWidths(m.width, hunkListWidth, m.listHidden)

	content := m.renderBodyPane(rightW, height)
	if !m.listHidden {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderHunkList(leftW, height), content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

func (m Model) paneBorderColor(p focusPane) lipgloss.Color {
	if m.focus == p {
		return lipgloss.Color("39")
	}
	return lipgloss.Color("245")
}

func (m Model) renderHunkList(width, height int) string {
	title := m.comparisonLabel()
	if m.loading {
		title += " (loading...)"
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(title, width, "…")), ""}

	rows := m.listHeight()
	scroll := listWindow(m.cursor, m.listScroll, rows, len(m.result.Hunks))
	end := min(len(m.result.Hunks), scroll+rows)
	for i := scroll; i < end; i++ {
		h := m.result.Hunks[i]
		counts := fmt.Sprintf(" +%d -%d", h.Stats.Added, h.Stats.Removed)
		name := ansi.Truncate(h.FileName, max(1, width-len(counts)-2), "…")
		row := fmt.Sprintf("%s%s", name, counts)
		if i == m.cursor {
			row = lipgloss.NewStyle().Reverse(true).Render("> " + row)
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}

	return lipgloss.NewStyle().
		Width(max(1, width)).
		Height(max(1, height)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.paneBorderColor(focusHunks)).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderBodyPane(width, height int) string {
	title := "No hunk selected"
	if h, ok := m.selectedHunk(); ok {
		title = h.FileName + " " + h.Header + "  " + diffview.FormatMeta(h.Stats, time.Now())
	}
	header := lipgloss.NewStyle().Bold(true).Width(max(1, width)).MaxWidth(max(1, width)).Render(title)

	return lipgloss.NewStyle().
		Width(max(1, width)).
		Height(max(1, height)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.paneBorderColor(focusBody)).
		Render(header + "\n\n" + m.body.View())
}

func (m Model) renderFooter() string {
	status := diffview.Summary(m.result.TotalStats)
	if m.alertMsg != "" {
		status = m.alertMsg
	}
	statusLine := lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(status, max(1, m.width), "…"))
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(ansi.Truncate(m.helpText(), max(1, m.width), "…"))
	return statusLine + "\n" + help
}

func (m Model) helpText() string {
	if !m.helpOpen {
		return "tab focus | j/k move | s working/staged | u untracked | o open | y copy | r refresh | z hide list | ? help | q quit"
	}
	return "j/k move, ctrl-f/b page, g/G top/bottom, s toggles working/staged, u toggles untracked files, o opens the hunk in your editor, y copies it, r refreshes"
}

func alertTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return alertTickMsg{}
	})
}

func (m *Model) setAlert(msg string) {
	m.alertMsg = msg
	m.alertUntil = time.Now().Add(3 * time.Second)
}
