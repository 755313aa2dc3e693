package tui

import (
	"io"
	"os"
	"strings"

	"github.com/aretw0/blend/pkg/formula"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Palette colours formula mentions.
type Palette struct {
	Resolved   termenv.Color
	Unresolved termenv.Color
}

// NewPalette picks mention colours for the given profile.
func NewPalette(p termenv.Profile) Palette {
	return Palette{
		Resolved:   p.Color("#a78bfa"),
		Unresolved: p.Color("#fb7185"),
	}
}

// Highlight colours the "@name" part of every span in text: resolved names
// bold in the accent colour, unknown names struck through. Signs, coefficients
// and everything else are left unchanged. An Ascii profile returns text as is.
func Highlight(text string, spans []formula.Span, p termenv.Profile) string {
	if p == termenv.Ascii || len(spans) == 0 {
		return text
	}
	palette := NewPalette(p)

	var sb strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.NameStart < pos || sp.End > len(text) || sp.NameStart > sp.End {
			continue
		}
		sb.WriteString(text[pos:sp.NameStart])
		styled := p.String(text[sp.NameStart:sp.End])
		if sp.Resolved {
			styled = styled.Foreground(palette.Resolved).Bold()
		} else {
			styled = styled.Foreground(palette.Unresolved).CrossOut()
		}
		sb.WriteString(styled.String())
		pos = sp.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// ProfileFor returns the colour profile to use for w: the detected profile
// for a terminal, Ascii for pipes and files.
func ProfileFor(w io.Writer) termenv.Profile {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).Profile
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
