package mention_test

import (
	"testing"

	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/mention"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registry = []domain.Identifier{
	{ID: "i1", Name: "Sugar"},
	{ID: "i2", Name: "Butter"},
	{ID: "i3", Name: "Salt"},
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		caret int
		want  domain.Mention
	}{
		{"partial query", "0.5*@Sug", 8, domain.Mention{Active: true, Query: "Sug", Anchor: 4}},
		{"trailing space breaks", "0.5*@Sugar ", 11, domain.Mention{Anchor: 4}},
		{"empty query is active", "2*@", 3, domain.Mention{Active: true, Anchor: 2}},
		{"no sigil", "0.5*Sugar", 9, domain.Mention{}},
		{"operator breaks", "@Sugar+", 7, domain.Mention{Anchor: 0}},
		{"star breaks", "@Sugar*", 7, domain.Mention{Anchor: 0}},
		{"minus breaks", "@Sug-", 5, domain.Mention{Anchor: 0}},
		{"caret mid text", "@Sugar + @Butter", 4, domain.Mention{Active: true, Query: "Sug", Anchor: 0}},
		{"last sigil wins", "@Sugar + @Bu", 12, domain.Mention{Active: true, Query: "Bu", Anchor: 9}},
		{"caret beyond end is clamped", "@Bu", 99, domain.Mention{Active: true, Query: "Bu", Anchor: 0}},
		{"negative caret is clamped", "@Bu", -3, domain.Mention{}},
		{"rune offsets", "é*@Crè", 6, domain.Mention{Active: true, Query: "Crè", Anchor: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mention.Detect(tt.text, tt.caret))
		})
	}
}

func TestSuggest(t *testing.T) {
	t.Run("case insensitive substring keeps registry order", func(t *testing.T) {
		got := mention.Suggest(registry, "s", 0)
		assert.Equal(t, []domain.Identifier{registry[0], registry[2]}, got)
	})

	t.Run("empty query browses", func(t *testing.T) {
		assert.Equal(t, registry, mention.Suggest(registry, "", 0))
	})

	t.Run("limit", func(t *testing.T) {
		var big []domain.Identifier
		for _, n := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"} {
			big = append(big, domain.Identifier{ID: n, Name: n})
		}
		assert.Len(t, mention.Suggest(big, "", 0), mention.DefaultLimit)
		assert.Len(t, mention.Suggest(big, "A", 2), 2)
		assert.Equal(t, "a7", mention.Suggest(big, "7", 0)[0].Name)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, mention.Suggest(registry, "xyz", 0))
	})
}

func TestExclude(t *testing.T) {
	assert.Equal(t, []domain.Identifier{registry[1]}, mention.Exclude(registry, []string{"i1", "i3"}))
	assert.Equal(t, registry, mention.Exclude(registry, nil))
}

func TestController_NavigationClamp(t *testing.T) {
	var c mention.Controller
	c.QueryChanged(3)

	for i := 0; i < 5; i++ {
		c.Down()
	}
	assert.Equal(t, 2, c.Selected())

	for i := 0; i < 5; i++ {
		c.Up()
		assert.GreaterOrEqual(t, c.Selected(), 0)
	}
	assert.Equal(t, 0, c.Selected())
}

func TestController_QueryChangedResets(t *testing.T) {
	var c mention.Controller
	c.QueryChanged(4)
	c.Down()
	c.Down()
	require.Equal(t, 2, c.Selected())

	c.QueryChanged(4)
	assert.Equal(t, 0, c.Selected())
}

func TestController_EmptyList(t *testing.T) {
	var c mention.Controller
	c.QueryChanged(0)
	c.Down()
	assert.Equal(t, 0, c.Selected())

	_, ok := c.Commit(nil)
	assert.False(t, ok)
	assert.True(t, c.Active())
}

func TestController_CommitAndCancel(t *testing.T) {
	var c mention.Controller
	c.QueryChanged(len(registry))
	c.Down()

	got, ok := c.Commit(registry)
	require.True(t, ok)
	assert.Equal(t, registry[1], got)
	assert.False(t, c.Active())

	_, ok = c.Commit(registry)
	assert.False(t, ok, "commit after close must not emit")

	c.QueryChanged(2)
	c.Cancel()
	assert.False(t, c.Active())
}

func TestInsert(t *testing.T) {
	t.Run("caret arithmetic", func(t *testing.T) {
		text, caret := mention.Insert("0.5*+@Bu", 5, 2, "Butter")
		assert.Equal(t, "0.5*+@Butter", text)
		assert.Equal(t, 12, caret)
	})

	t.Run("keeps text after the query", func(t *testing.T) {
		text, caret := mention.Insert("@Su + @Salt", 0, 2, "Sugar")
		assert.Equal(t, "@Sugar + @Salt", text)
		assert.Equal(t, 6, caret)
	})

	t.Run("empty query", func(t *testing.T) {
		text, caret := mention.Insert("2*@", 2, 0, "Brown Sugar")
		assert.Equal(t, "2*@Brown Sugar", text)
		assert.Equal(t, 14, caret)
	})

	t.Run("multibyte", func(t *testing.T) {
		text, caret := mention.Insert("é*@c", 2, 1, "Crème")
		assert.Equal(t, "é*@Crème", text)
		assert.Equal(t, 8, caret)
	})

	t.Run("query longer than text is clamped", func(t *testing.T) {
		text, caret := mention.Insert("@Bu", 0, 10, "Butter")
		assert.Equal(t, "@Butter", text)
		assert.Equal(t, 7, caret)
	})
}

func TestDetectInsertCycle(t *testing.T) {
	text := "0.5*@Sugar + 2*@bu"
	m := mention.Detect(text, mention.Len(text))
	require.True(t, m.Active)

	list := mention.Suggest(registry, m.Query, 0)
	require.Len(t, list, 1)

	newText, caret := mention.Insert(text, m.Anchor, mention.Len(m.Query), list[0].Name)
	assert.Equal(t, "0.5*@Sugar + 2*@Butter", newText)
	assert.Equal(t, mention.Len(newText), caret)
}

func TestController_Select(t *testing.T) {
	var c mention.Controller
	c.QueryChanged(3)

	c.Select(1)
	assert.Equal(t, 1, c.Selected())
	c.Select(10)
	assert.Equal(t, 2, c.Selected())
	c.Select(-4)
	assert.Equal(t, 0, c.Selected())
}
