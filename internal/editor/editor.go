// Package editor finds an installed code editor and opens files in it.
package editor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"hunkdiff/internal/util"
)

var ErrNoEditor = errors.New("no supported editor found; install VS Code, Sublime Text, or another supported editor")

// Candidate is one editor to try. Probe must exit 0 for the editor to be
// used; Args builds the launch arguments for a path and optional line.
type Candidate struct {
	Name    string
	Command string
	Prefix  []string
	Probe   []string
	GOOS    []string
	Args    func(path string, line int) []string
}

func (c Candidate) supports(goos string) bool {
	return len(c.GOOS) == 0 || slices.Contains(c.GOOS, goos)
}

// Launch returns the command and full argument list for opening path.
func (c Candidate) Launch(path string, line int) (string, []string) {
	args := append(append([]string(nil), c.Prefix...), c.Args(path, line)...)
	return c.Command, args
}

func vscodeArgs(path string, line int) []string {
	if line > 0 {
		return []string{"-r", "-g", path + ":" + strconv.Itoa(line)}
	}
	return []string{"-r", path}
}

func colonLineArgs(path string, line int) []string {
	if line > 0 {
		return []string{path + ":" + strconv.Itoa(line)}
	}
	return []string{path}
}

func notepadPPArgs(path string, line int) []string {
	if line > 0 {
		return []string{"-n" + strconv.Itoa(line), path}
	}
	return []string{path}
}

func plainArgs(path string, _ int) []string {
	return []string{path}
}

var windows = []string{"windows"}

// DefaultCandidates is the search order, most preferred first.
var DefaultCandidates = []Candidate{
	{Name: "code.cmd", Command: "code.cmd", Probe: []string{"--version"}, GOOS: windows, Args: vscodeArgs},
	{Name: "code.exe", Command: "code.exe", Probe: []string{"--version"}, GOOS: windows, Args: vscodeArgs},
	{Name: "code", Command: "code", Probe: []string{"--version"}, Args: vscodeArgs},
	{Name: "cmd-code", Command: "cmd", Prefix: []string{"/c", "code"}, Probe: []string{"/c", "code", "--version"}, GOOS: windows, Args: vscodeArgs},
	{Name: "subl", Command: "subl", Probe: []string{"--version"}, Args: colonLineArgs},
	{Name: "atom", Command: "atom", Probe: []string{"--version"}, Args: colonLineArgs},
	{Name: "notepad++", Command: "notepad++", Probe: []string{"--version"}, GOOS: windows, Args: notepadPPArgs},
	{Name: "notepad", Command: "notepad", Probe: []string{"/?"}, GOOS: windows, Args: plainArgs},
}

// RunFunc runs a command and reports failure.
type RunFunc func(ctx context.Context, name string, args ...string) error

func execRun(ctx context.Context, name string, args ...string) error {
	_, err := util.Run(ctx, "", name, args...)
	return err
}

type Launcher struct {
	candidates []Candidate
	run        RunFunc
}

type Option func(*Launcher)

// WithPreferred moves the named candidate to the front of the search order.
func WithPreferred(name string) Option {
	return func(l *Launcher) {
		for i, c := range l.candidates {
			if c.Name == name {
				reordered := append([]Candidate{c}, l.candidates[:i]...)
				l.candidates = append(reordered, l.candidates[i+1:]...)
				return
			}
		}
	}
}

// WithRunFunc replaces process execution, mainly for tests.
func WithRunFunc(run RunFunc) Option {
	return func(l *Launcher) { l.run = run }
}

// WithGOOS filters candidates for another operating system.
func WithGOOS(goos string) Option {
	return func(l *Launcher) { l.candidates = filterGOOS(DefaultCandidates, goos) }
}

func filterGOOS(all []Candidate, goos string) []Candidate {
	out := make([]Candidate, 0, len(all))
	for _, c := range all {
		if c.supports(goos) {
			out = append(out, c)
		}
	}
	return out
}

func New(opts ...Option) *Launcher {
	l := &Launcher{candidates: filterGOOS(DefaultCandidates, runtime.GOOS), run: execRun}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns the current search order.
func (l *Launcher) Candidates() []Candidate {
	return append([]Candidate(nil), l.candidates...)
}

// Find returns the first candidate whose probe succeeds.
func (l *Launcher) Find(ctx context.Context) (Candidate, error) {
	for _, c := range l.candidates {
		if l.run(ctx, c.Command, c.Probe...) == nil {
			return c, nil
		}
	}
	return Candidate{}, ErrNoEditor
}

// Open opens filePath at line (0 for none). Relative paths are resolved
// against workDir.
func (l *Launcher) Open(ctx context.Context, filePath, workDir string, line int) error {
	abs := filePath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workDir, filePath)
	}

	c, err := l.Find(ctx)
	if err != nil {
		return err
	}
	name, args := c.Launch(abs, line)
	if err := l.run(ctx, name, args...); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}
