// Package clipboard copies hunk patches to the system clipboard through
// the platform's clipboard command.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"hunkdiff/internal/diffview"
	"hunkdiff/internal/util"
)

var ErrUnsupported = errors.New("no clipboard command for this platform")

type command struct {
	name string
	args []string
}

func commandsFor(goos string) []command {
	switch goos {
	case "darwin":
		return []command{{name: "pbcopy"}}
	case "windows":
		return []command{{name: "clip"}}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []command{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	default:
		return nil
	}
}

// WriteFunc feeds stdin to a command.
type WriteFunc func(ctx context.Context, stdin, name string, args ...string) error

func execWrite(ctx context.Context, stdin, name string, args ...string) error {
	_, err := util.RunWithStdin(ctx, "", stdin, name, args...)
	return err
}

type Copier struct {
	goos  string
	write WriteFunc
}

func New() *Copier {
	return &Copier{goos: runtime.GOOS, write: execWrite}
}

// NewWith is New with the platform and command execution replaced.
func NewWith(goos string, write WriteFunc) *Copier {
	if write == nil {
		write = execWrite
	}
	return &Copier{goos: goos, write: write}
}

// CopyText tries each clipboard command for the platform until one accepts
// text. The last failure is returned when none does.
func (c *Copier) CopyText(ctx context.Context, text string) error {
	cmds := commandsFor(c.goos)
	if len(cmds) == 0 {
		return ErrUnsupported
	}
	var lastErr error
	for _, cmd := range cmds {
		if err := c.write(ctx, text, cmd.name, cmd.args...); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("copy to clipboard: %w", lastErr)
}

// CopyHunk copies h as a patch fragment: its header followed by its lines.
func (c *Copier) CopyHunk(ctx context.Context, h diffview.Hunk) error {
	return c.CopyText(ctx, diffview.PatchText(h))
}
