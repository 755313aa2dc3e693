package mention

import (
	"strings"
	"unicode"

	"github.com/aretw0/blend/pkg/domain"
)

// Sigil opens a mention.
const Sigil = '@'

// breakers end a mention query. Whitespace does as well.
const breakers = "+-*"

// Detect finds the mention trigger ending at caret.
// The last '@' before the caret anchors the trigger. It is active only when the
// text between the '@' and the caret holds no whitespace and no operator.
func Detect(text string, caret int) domain.Mention {
	runes := []rune(text)
	caret = clamp(caret, 0, len(runes))

	at := -1
	for i := caret - 1; i >= 0; i-- {
		if runes[i] == Sigil {
			at = i
			break
		}
	}
	if at < 0 {
		return domain.Mention{}
	}

	query := string(runes[at+1 : caret])
	if strings.ContainsAny(query, breakers) || strings.IndexFunc(query, unicode.IsSpace) >= 0 {
		return domain.Mention{Anchor: at}
	}
	return domain.Mention{Active: true, Query: query, Anchor: at}
}

// Len returns the length of s in runes.
func Len(s string) int {
	return len([]rune(s))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
