package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	return func(markdown string) (string, error) {
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}

// Markdown describes a combination as a markdown document: heading,
// description, formula and a term table.
func Markdown(c *domain.Combination) string {
	var sb strings.Builder

	name := c.Name
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if c.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", c.Description)
	}
	fmt.Fprintf(&sb, "`id: %s`\n\n", c.ID)

	if len(c.Terms) == 0 {
		sb.WriteString("_No terms._\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "```\n%s\n```\n\n", formula.Serialize(c.Terms))
	sb.WriteString("| Input | ID | Coefficient |\n|---|---|---:|\n")
	for _, t := range c.Terms {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n",
			escapeCell(t.InputName), escapeCell(t.InputID), formula.FormatMagnitude(t.Coefficient))
	}
	return sb.String()
}

// RenderCombination renders a combination for a terminal.
func RenderCombination(render func(string) (string, error), c *domain.Combination) (string, error) {
	return render(Markdown(c))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
