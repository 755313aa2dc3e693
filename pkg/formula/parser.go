package formula

import (
	"strconv"
	"strings"

	"github.com/aretw0/blend/internal/textmatch"
	"github.com/aretw0/blend/pkg/domain"
)

// Span locates one mention match inside the parsed text (byte offsets, end exclusive).
// Start covers the whole term including sign and coefficient; NameStart is the '@'.
type Span struct {
	Start     int    `json:"start"`
	NameStart int    `json:"name_start"`
	End       int    `json:"end"`
	Name      string `json:"name"`
	Resolved  bool   `json:"resolved"`
}

// Result is the outcome of Parse.
type Result struct {
	// Terms holds the resolved terms in match order. Duplicate inputs are kept.
	Terms []domain.Term `json:"terms"`

	// Valid is false when the text had content but nothing resolved to a term.
	// Callers must then keep their previous terms.
	Valid bool `json:"valid"`

	// Unresolved lists mention names that matched no registry entry, in match order.
	// They contribute no term.
	Unresolved []string `json:"unresolved,omitempty"`

	// Spans lists every mention match, resolved or not.
	Spans []Span `json:"spans,omitempty"`
}

// Parse reads text in canonical notation and resolves mentions against registry.
// It never fails: malformed coefficients fall back to 1 and unknown names are dropped.
func Parse(text string, registry []domain.Identifier) Result {
	res := Result{Terms: []domain.Term{}}

	for _, m := range scan(text) {
		span := Span{Start: m.start, NameStart: m.at, End: m.end, Name: m.name}
		id, ok := Resolve(m.name, registry)
		if ok {
			res.Terms = append(res.Terms, domain.Term{
				InputID:     id.ID,
				InputName:   id.Name,
				Coefficient: Coefficient(m.coef),
			})
			span.Resolved = true
		} else {
			res.Unresolved = append(res.Unresolved, m.name)
		}
		res.Spans = append(res.Spans, span)
	}

	res.Valid = len(res.Terms) > 0 || strings.TrimSpace(text) == ""
	return res
}

// Coefficient normalizes a sign/number segment.
// Empty or "+" yields 1, "-" yields -1; anything unparseable yields 1.
func Coefficient(segment string) float64 {
	seg := strings.Join(strings.Fields(segment), "")
	switch seg {
	case "", "+":
		return 1
	case "-":
		return -1
	}
	v, err := strconv.ParseFloat(seg, 64)
	if err != nil {
		return 1
	}
	return v
}

// Resolve finds the first registry entry whose name equals name ignoring case.
func Resolve(name string, registry []domain.Identifier) (domain.Identifier, bool) {
	key := textmatch.Key(strings.TrimSpace(name))
	for _, id := range registry {
		if textmatch.Key(id.Name) == key {
			return id, true
		}
	}
	return domain.Identifier{}, false
}
