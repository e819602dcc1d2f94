package bodyfmt

import (
	"fmt"
	"unicode"
)

// scanner walks a private copy of the content. It carries a single-slot mark
// for lookahead and the color transition state of the output.
type scanner struct {
	buf     []rune
	pos     int
	saved   int
	marked  bool
	palette *Palette
	curr    Color
	prev    Color
}

func newScanner(body []byte, p *Palette) *scanner {
	if p == nil {
		p = DefaultPalette
	}
	s := &scanner{buf: []rune(string(body)), palette: p}
	s.rewind()
	return s
}

// rewind prepares the scanner for a fresh pass.
func (s *scanner) rewind() {
	s.pos = 0
	s.saved = 0
	s.marked = false
	s.curr = s.palette.Color(DefaultText)
	s.prev = s.curr
}

func (s *scanner) size() int     { return len(s.buf) }
func (s *scanner) position() int { return s.pos }
func (s *scanner) done() bool    { return s.pos >= len(s.buf) }
func (s *scanner) advance()      { s.pos++ }
func (s *scanner) retreat()      { s.pos-- }

func (s *scanner) advanceBy(n int) { s.pos += n }

// current returns the rune at the position. The caller checks done first.
func (s *scanner) current() rune { return s.buf[s.pos] }

// at returns the rune at index i and whether i is inside the content.
func (s *scanner) at(i int) (rune, bool) {
	if i < 0 || i >= len(s.buf) {
		return 0, false
	}
	return s.buf[i], true
}

// peek returns the rune n positions ahead without moving.
func (s *scanner) peek(n int) (rune, bool) {
	return s.at(s.pos + n)
}

// next moves forward one rune and returns it. At end of input the position
// stays one past the last rune and ok is false.
func (s *scanner) next() (rune, bool) {
	if s.pos < len(s.buf) {
		s.pos++
	}
	return s.at(s.pos)
}

// nextNonSpace moves past any whitespace following the position and returns
// the first other rune.
func (s *scanner) nextNonSpace() (rune, bool) {
	ch, ok := s.next()
	for ok && unicode.IsSpace(ch) {
		ch, ok = s.next()
	}
	return ch, ok
}

// mark saves the position, replacing any earlier mark.
func (s *scanner) mark() {
	s.saved = s.pos
	s.marked = true
}

// reset returns to the mark and clears it. Without a mark it returns to 0.
func (s *scanner) reset() {
	if s.marked {
		s.pos = s.saved
	} else {
		s.pos = 0
	}
	s.saved = 0
	s.marked = false
}

func (s *scanner) setColor(c Color) {
	s.prev = s.curr
	s.curr = c
}

func (s *scanner) setRole(r Role) { s.setColor(s.palette.Color(r)) }

// resetColor acknowledges a transition without changing the color.
func (s *scanner) resetColor() { s.prev = s.curr }

func (s *scanner) colorChanged() bool { return s.prev != s.curr }

func (s *scanner) color() Color { return s.curr }

func (s *scanner) escape() string { return s.curr.Escape() }

// malformed reports a scan that ran past the content or broke an invariant.
func (s *scanner) malformed(what string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformedInput, what, s.pos)
}
