package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{`                 _        _         `, "#818cf8"},
	{`  _ __ ___   ___ | |_ ___ | | _____  `, "#a78bfa"},
	{` | '_ ' _ \ / _ \| __/ _ \| |/ / _ \ `, "#c084fc"},
	{` | | | | | | (_) | || (_) |   < (_) |`, "#e879f9"},
	{` |_| |_| |_|\___/ \__\___/|_|\_\___/ `, "#f472b6"},
}

// PrintBanner writes the ASCII banner followed by the version line.
// Colours degrade to plain text when w does not support them.
func PrintBanner(w io.Writer, name, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", name, version)
}
