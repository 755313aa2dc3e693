package domain

import "time"

// Term is one weighted reference to an input.
// Coefficient may be any finite real number, including 0 and negative values.
type Term struct {
	InputID     string  `json:"input_id"`
	InputName   string  `json:"input_name"`
	Coefficient float64 `json:"coefficient"`
}

// Combination is a named weighted sum of inputs.
// Within one Combination InputID values are unique when terms are added
// through AddTerm; ReplaceTerms accepts whatever the parser produced.
type Combination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Terms       []Term    `json:"terms"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCombination creates an empty combination.
func NewCombination(id string) *Combination {
	return &Combination{
		ID:        id,
		Terms:     []Term{},
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy so callers can't mutate shared term slices.
func (c *Combination) Clone() *Combination {
	if c == nil {
		return nil
	}
	out := *c
	out.Terms = CloneTerms(c.Terms)
	return &out
}

// IndexOf returns the position of the term referencing inputID, or -1.
func (c *Combination) IndexOf(inputID string) int {
	for i, t := range c.Terms {
		if t.InputID == inputID {
			return i
		}
	}
	return -1
}

// InputIDs returns the referenced input IDs in term order.
func (c *Combination) InputIDs() []string {
	ids := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		ids = append(ids, t.InputID)
	}
	return ids
}

// CloneTerms copies a term slice. A nil slice becomes an empty one.
func CloneTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	copy(out, terms)
	return out
}
