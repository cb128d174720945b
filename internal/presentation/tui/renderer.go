package tui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Renderer turns markdown tool output into text for w.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a glamour renderer when w is a colour-capable terminal
// and a pass-through renderer otherwise, so piped output stays plain markdown.
func NewRenderer(w io.Writer) Renderer {
	if !IsTerminal(w) || termenv.EnvColorProfile() == termenv.Ascii {
		return Plain
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return Plain
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Plain returns markdown unchanged apart from a trailing newline.
func Plain(markdown string) (string, error) {
	return strings.TrimRight(markdown, "\n") + "\n", nil
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
