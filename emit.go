package bodyfmt

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// emitter writes tokens to the sink, prefixing a color escape whenever the
// scanner's color changed since the last token.
type emitter struct {
	w     *bufio.Writer
	color bool
}

func newEmitter(w io.Writer, color bool) *emitter {
	return &emitter{w: bufio.NewWriter(w), color: color}
}

func (e *emitter) transition(s *scanner) {
	if e.color && s.colorChanged() {
		_, _ = e.w.WriteString(s.escape())
		s.resetColor()
	}
}

// token writes tok in the current color.
func (e *emitter) token(s *scanner, tok []byte) {
	e.transition(s)
	_, _ = e.w.Write(tok)
}

// char writes a single rune in the current color.
func (e *emitter) char(s *scanner, r rune) {
	e.transition(s)
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], r)
	_, _ = e.w.Write(b[:n])
}

// finish restores the terminal default color if the output left it changed
// and flushes. The first write error, if any, is returned.
func (e *emitter) finish(s *scanner) error {
	if e.color && s.color() != s.palette.Color(DefaultText) {
		s.setRole(DefaultText)
		e.transition(s)
	}
	return e.w.Flush()
}
