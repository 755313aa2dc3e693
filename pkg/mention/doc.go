/*
Package mention implements caret-anchored "@name" autocomplete over plain text.

All offsets are rune offsets so they map directly onto the character positions
a text widget reports. The hosting UI translates its widget state into a
(text, caret) pair, and applies the (newText, newCaret) pair returned by Insert.

	m := mention.Detect("0.5*@Sug", 8)    // {Active: true, Query: "Sug", Anchor: 4}
	list := mention.Suggest(registry, m.Query, 0)
	text, caret := mention.Insert("0.5*@Sug", m.Anchor, mention.Len(m.Query), list[0].Name)
*/
package mention
