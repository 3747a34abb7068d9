package tui

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// yankResultMsg reports whether the series reached the clipboard
type yankResultMsg struct {
	err error
}

// osc52Sequence returns the escape sequence that asks the terminal to put
// text on the system clipboard. Inside tmux the sequence is wrapped in a DCS
// passthrough with its leading ESC doubled.
func osc52Sequence(text string, tmux bool) string {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
	if tmux {
		seq = "\x1bPtmux;\x1b" + seq + "\x1b\\"
	}
	return seq
}

// clipboardWriter is a tea.ExecCommand: bubbletea hands it the program's
// output so the sequence reaches the real terminal.
type clipboardWriter struct {
	text string
	out  io.Writer
}

func (c *clipboardWriter) Run() error {
	if c.out == nil {
		return fmt.Errorf("no terminal to write to")
	}
	_, err := io.WriteString(c.out, osc52Sequence(c.text, os.Getenv("TMUX") != ""))
	return err
}

func (c *clipboardWriter) SetStdin(io.Reader)    {}
func (c *clipboardWriter) SetStdout(w io.Writer) { c.out = w }
func (c *clipboardWriter) SetStderr(io.Writer)   {}

// yankToClipboard copies text through the terminal
func yankToClipboard(text string) tea.Cmd {
	return tea.Exec(&clipboardWriter{text: text}, func(err error) tea.Msg {
		return yankResultMsg{err: err}
	})
}
