package domain

// EditMode is the editing surface currently used for a combination.
type EditMode string

const (
	ModeBuilder     EditMode = "builder"      // Structured add/remove/set-coefficient editing
	ModeDirectEntry EditMode = "direct_entry" // Free-text formula editing
)

// Mention is the autocomplete trigger state derived from (text, caret).
// Anchor is the rune offset of the '@' that opened the trigger.
type Mention struct {
	Active bool   `json:"active"`
	Query  string `json:"query"`
	Anchor int    `json:"anchor"`
}

// EditSession is the transient direct-entry state of one combination.
// It is never persisted.
type EditSession struct {
	CombinationID string   `json:"combination_id"`
	Mode          EditMode `json:"mode"`
	Buffer        string   `json:"buffer"`
	Caret         int      `json:"caret"`
	Mention       Mention  `json:"mention"`
}
