package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the blend banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	p := ProfileFor(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _     _                _ ", "#818cf8"},
		{" | |__ | | ___ _ __   __| |", "#a78bfa"},
		{" | '_ \\| |/ _ \\ '_ \\ / _` |", "#c084fc"},
		{" | |_) | |  __/ | | | (_| |", "#e879f9"},
		{" |_.__/|_|\\___|_| |_|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, p.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
