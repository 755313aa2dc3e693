package mention

// Insert replaces the '@' at anchor and the queryLen runes after it with
// "@"+name, returning the new text and the caret placed right after the name.
// Out-of-range offsets are clamped to the text.
func Insert(text string, anchor, queryLen int, name string) (string, int) {
	runes := []rune(text)
	anchor = clamp(anchor, 0, len(runes))
	end := clamp(anchor+1+max(queryLen, 0), anchor, len(runes))

	out := make([]rune, 0, len(runes)+Len(name)+1)
	out = append(out, runes[:anchor]...)
	out = append(out, Sigil)
	out = append(out, []rune(name)...)
	out = append(out, runes[end:]...)

	return string(out), anchor + 1 + Len(name)
}
