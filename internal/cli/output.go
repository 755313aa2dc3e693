package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/blend/internal/presentation/tui"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/aretw0/blend/pkg/session"
	"github.com/muesli/termenv"
)

// Printer writes command output either as JSON or as human-readable text,
// styled when the writer is a terminal.
type Printer struct {
	w       io.Writer
	json    bool
	profile termenv.Profile
	render  func(string) (string, error)
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer, asJSON bool) *Printer {
	p := &Printer{
		w:       w,
		json:    asJSON,
		profile: tui.ProfileFor(w),
	}
	if tui.IsTerminal(w) {
		p.render = tui.NewRenderer()
	}
	return p
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Combinations prints a list, one line per combination.
func (p *Printer) Combinations(list []*domain.Combination) error {
	if p.json {
		return p.JSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(p.w, "No combinations found.")
		return nil
	}
	for _, c := range list {
		name := c.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(p.w, "%s\t%s\t%s\n", c.ID, name, formula.Serialize(c.Terms))
	}
	return nil
}

// Combination prints one combination, as rendered markdown on a terminal.
func (p *Printer) Combination(c *domain.Combination) error {
	if p.json {
		return p.JSON(c)
	}
	if p.render != nil {
		out, err := tui.RenderCombination(p.render, c)
		if err == nil {
			fmt.Fprint(p.w, out)
			return nil
		}
	}
	fmt.Fprint(p.w, tui.Markdown(c))
	return nil
}

// Parse prints a parse result with mentions highlighted.
func (p *Printer) Parse(text string, res formula.Result) error {
	if p.json {
		return p.JSON(res)
	}
	fmt.Fprintln(p.w, tui.Highlight(text, res.Spans, p.profile))
	fmt.Fprintf(p.w, "valid: %t\n", res.Valid)
	for _, t := range res.Terms {
		fmt.Fprintf(p.w, "  %s\t%s\t%s\n", t.InputID, t.InputName, formula.FormatMagnitude(t.Coefficient))
	}
	if len(res.Unresolved) > 0 {
		fmt.Fprintf(p.w, "unresolved: %s\n", strings.Join(res.Unresolved, ", "))
	}
	fmt.Fprintf(p.w, "canonical: %s\n", formula.Serialize(res.Terms))
	return nil
}

// Identifiers prints registry entries.
func (p *Printer) Identifiers(ids []domain.Identifier) error {
	if p.json {
		return p.JSON(ids)
	}
	for _, id := range ids {
		fmt.Fprintf(p.w, "%s\t%s\n", id.ID, id.Name)
	}
	return nil
}

// Exit prints the outcome of a direct-entry session.
func (p *Printer) Exit(res session.ExitResult) error {
	if p.json {
		return p.JSON(res)
	}
	fmt.Fprintf(p.w, "%s: %s\n", res.Outcome, formula.Serialize(res.Terms))
	if len(res.Unresolved) > 0 {
		fmt.Fprintf(p.w, "unresolved: %s\n", strings.Join(res.Unresolved, ", "))
	}
	return nil
}
