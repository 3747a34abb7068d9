package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// isTerminal returns true if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// colorEnabled resolves a --color value of auto, always or never.
// always forces true color output even when w is not a terminal.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "", "auto":
		return isTerminal(w), nil
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color %q (want auto, always or never)", mode)
	}
}
