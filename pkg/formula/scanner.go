package formula

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sigil marks an identifier reference.
const Sigil = "@"

const (
	sigil    = '@'
	mulMark  = '*'
	plusMark = '+'
	minMark  = '-'
)

// match is one "[sign][number][*]@name" occurrence.
// Offsets are byte offsets into the scanned text.
type match struct {
	coef  string // sign/number segment with blanks removed
	name  string // identifier text, trimmed
	start int
	at    int // offset of the '@'
	end   int
}

// scanner walks the text one rune at a time.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() rune {
	if s.eof() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

func (s *scanner) next() rune {
	if s.eof() {
		return utf8.RuneError
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	return r
}

func (s *scanner) skipBlanks() {
	for !s.eof() && unicode.IsSpace(s.peek()) {
		s.next()
	}
}

// number consumes digits with an optional fractional part.
func (s *scanner) number() string {
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.next()
	}
	if s.peek() == '.' {
		s.next()
		for !s.eof() && isDigit(s.peek()) {
			s.next()
		}
	}
	return s.src[start:s.pos]
}

// identifier consumes the maximal run of identifier runes and returns it
// with surrounding blanks trimmed, together with the byte offset just past
// its last non-blank rune.
func (s *scanner) identifier() (string, int) {
	start := s.pos
	end := s.pos
	for !s.eof() {
		r := s.peek()
		if !isIdentRune(r) {
			break
		}
		s.next()
		if !isBlank(r) {
			end = s.pos
		}
	}
	return strings.TrimSpace(s.src[start:end]), end
}

// term attempts to read one match at the current position.
// On failure the position is undefined and the caller must reset it.
func (s *scanner) term() (match, bool) {
	var seg strings.Builder
	start := s.pos

	if r := s.peek(); r == plusMark || r == minMark {
		seg.WriteRune(s.next())
		s.skipBlanks()
	}
	seg.WriteString(s.number())
	s.skipBlanks()
	if s.peek() == mulMark {
		s.next()
		s.skipBlanks()
	}
	if s.peek() != sigil {
		return match{}, false
	}
	at := s.pos
	s.next()

	name, end := s.identifier()
	if name == "" {
		return match{}, false
	}
	return match{coef: seg.String(), name: name, start: start, at: at, end: end}, true
}

// scan returns the maximal non-overlapping matches of text, left to right.
func scan(text string) []match {
	var out []match
	s := &scanner{src: text}
	for {
		s.skipBlanks()
		if s.eof() {
			return out
		}
		start := s.pos
		if m, ok := s.term(); ok {
			out = append(out, m)
			continue
		}
		s.pos = start
		s.next()
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || isBlank(r)
}
