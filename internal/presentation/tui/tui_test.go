package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registry = []domain.Identifier{
	{ID: "i1", Name: "Sugar"},
	{ID: "i2", Name: "Butter"},
}

func TestHighlight_Ascii(t *testing.T) {
	text := "0.5*@Sugar + @Nope"
	res := formula.Parse(text, registry)
	assert.Equal(t, text, Highlight(text, res.Spans, termenv.Ascii))
}

func TestHighlight_Colours(t *testing.T) {
	text := "0.5*@Sugar + @Nope"
	res := formula.Parse(text, registry)
	require.Len(t, res.Spans, 2)

	out := Highlight(text, res.Spans, termenv.ANSI256)
	assert.NotEqual(t, text, out)
	assert.True(t, strings.HasPrefix(out, "0.5*\x1b["), out)
	assert.Contains(t, out, "@Sugar\x1b[0m + \x1b[")
	assert.True(t, strings.HasSuffix(out, "@Nope\x1b[0m"), out)
}

func TestHighlight_IgnoresBadSpans(t *testing.T) {
	text := "@Sugar"
	out := Highlight(text, []formula.Span{{Start: 3, NameStart: 3, End: 99}}, termenv.ANSI)
	assert.Equal(t, text, out)
}

func TestMarkdown(t *testing.T) {
	c := &domain.Combination{
		ID:          "c1",
		Name:        "Dough",
		Description: "Base mix",
		Terms: []domain.Term{
			{InputID: "i1", InputName: "Sugar", Coefficient: 0.5},
			{InputID: "i2", InputName: "Butter", Coefficient: -2},
		},
	}
	md := Markdown(c)
	assert.Contains(t, md, "# Dough")
	assert.Contains(t, md, "Base mix")
	assert.Contains(t, md, "0.5*@Sugar - 2*@Butter")
	assert.Contains(t, md, "| Butter | i2 | -2 |")

	empty := Markdown(&domain.Combination{ID: "c2"})
	assert.Contains(t, empty, "# (unnamed)")
	assert.Contains(t, empty, "_No terms._")
}

func TestRenderCombination(t *testing.T) {
	out, err := RenderCombination(NewRenderer(), &domain.Combination{ID: "c1", Name: "Dough"})
	require.NoError(t, err)
	assert.Contains(t, out, "Dough")
}

func TestPrintBanner_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.0.0")
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "v1.0.0")
	assert.False(t, IsTerminal(&buf))
}
