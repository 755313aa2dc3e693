package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/blend/pkg/domain"
)

// Serialize renders terms in canonical text form.
// An empty list renders as the empty string.
func Serialize(terms []domain.Term) string {
	var b strings.Builder
	for i, t := range terms {
		negative := t.Coefficient < 0
		switch {
		case i == 0 && negative:
			b.WriteString("-")
		case i > 0 && negative:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		if mag := math.Abs(t.Coefficient); mag != 1 {
			b.WriteString(FormatMagnitude(mag))
			b.WriteString("*")
		}
		b.WriteString(Sigil)
		b.WriteString(t.InputName)
	}
	return b.String()
}

// FormatMagnitude renders a non-negative number in its shortest plain decimal
// form, without exponent or trailing zeros.
func FormatMagnitude(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
