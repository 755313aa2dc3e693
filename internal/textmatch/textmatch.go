// Package textmatch implements the case-insensitive comparisons used to match
// typed names against registry entries.
package textmatch

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Key returns the comparison form of s: NFC-normalized and case-folded.
// A Caser is stateful, so a fresh one is built per call.
func Key(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
