package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 150 * time.Millisecond

var errWatcherClosed = errors.New("watcher closed")

// repoChangedMsg is sent once a burst of filesystem events has settled.
type repoChangedMsg struct{}

type watchErrMsg struct {
	err error
}

// Watcher reports changes to the working tree and to the parts of the git
// directory that move HEAD or the index.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	gitDir   string
	debounce time.Duration
}

func NewWatcher(root, gitDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if gitDir == "" {
		gitDir = filepath.Join(root, ".git")
	}
	w := &Watcher{fs: fsw, root: filepath.Clean(root), gitDir: filepath.Clean(gitDir), debounce: defaultDebounce}

	if err := w.addTree(w.root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	for _, dir := range []string{w.gitDir, filepath.Join(w.gitDir, "refs", "heads")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			_ = fsw.Add(dir)
		}
	}
	return w, nil
}

// WaitForChange blocks until the next relevant change and then waits for
// the debounce window to go quiet.
func (w *Watcher) WaitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fs.Events:
				if !ok {
					return watchErrMsg{err: errWatcherClosed}
				}
				if !w.relevant(ev) {
					continue
				}
				w.track(ev)
				w.settle()
				return repoChangedMsg{}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return watchErrMsg{err: errWatcherClosed}
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (w *Watcher) settle() {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.track(ev)
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			return
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if !w.inGitDir(name) {
		return true
	}
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	base := filepath.Base(name)
	if base == "index" || base == "HEAD" {
		return true
	}
	return strings.HasPrefix(name, filepath.Join(w.gitDir, "refs")+string(os.PathSeparator))
}

// track starts watching directories created inside the working tree.
func (w *Watcher) track(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) || w.inGitDir(ev.Name) {
		return
	}
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		_ = w.addTree(ev.Name)
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.inGitDir(path) || d.Name() == ".git" {
			return filepath.SkipDir
		}
		_ = w.fs.Add(path)
		return nil
	})
}

func (w *Watcher) inGitDir(path string) bool {
	path = filepath.Clean(path)
	return path == w.gitDir || strings.HasPrefix(path, w.gitDir+string(os.PathSeparator))
}
