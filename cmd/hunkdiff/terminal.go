package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	defaultTerminalWidth = 100
	minTerminalWidth     = 40
	highlightStyle       = "monokai"
)

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return max(width, minTerminalWidth)
}

func stdoutIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
