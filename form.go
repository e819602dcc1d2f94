package bodyfmt

import "io"

type formRenderer struct {
	s    *scanner
	opts Options
}

func newFormRenderer(body []byte, opts Options) *formRenderer {
	return &formRenderer{s: newScanner(body, opts.palette()), opts: opts}
}

// Render writes a form-urlencoded body. Percent escapes and '+' are colored
// as converted characters; '=' and '&' as separators. There is no
// indentation.
func (r *formRenderer) Render(w io.Writer) error {
	s := r.s
	s.rewind()
	e := newEmitter(w, r.opts.Color)

	for !s.done() {
		ch := s.current()
		switch ch {
		case '%':
			s.setRole(NumericValue)
			start := s.position()
			if _, ok := s.peek(2); !ok {
				_ = e.w.Flush()
				return s.malformed("truncated percent escape")
			}
			s.advanceBy(2)
			e.token(s, runesToBytes(s.buf[start:s.position()+1]))
		case '+':
			s.setRole(NumericValue)
			e.char(s, ch)
		case '=', '&':
			s.setRole(Key)
			e.char(s, ch)
		default:
			s.setRole(DefaultText)
			e.char(s, ch)
		}
		s.advance()
	}
	return e.finish(s)
}
