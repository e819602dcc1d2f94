package bodyfmt

import (
	"io"
	"unicode"
	"unicode/utf8"
)

type jsonRenderer struct {
	s      *scanner
	indent *indenter
	opts   Options
	// open counts unclosed containers whether or not indentation is on.
	open int
}

func newJSONRenderer(body []byte, opts Options) *jsonRenderer {
	return &jsonRenderer{
		s:      newScanner(body, opts.palette()),
		indent: newIndenter(opts.IndentWidth),
		opts:   opts,
	}
}

// Render writes the JSON body with the configured color and indentation.
func (r *jsonRenderer) Render(w io.Writer) error {
	s := r.s
	s.rewind()
	r.indent.zero()
	r.open = 0
	e := newEmitter(w, r.opts.Color)

	for !s.done() {
		ch := s.current()
		var tok []byte
		var err error

		switch {
		case isOpenContainer(ch):
			s.setRole(Punctuation)
			tok, err = r.openContainer(ch)
		case isCloseContainer(ch):
			s.setRole(Punctuation)
			tok, err = r.closeContainer(ch)
		case ch == ',':
			s.setRole(Punctuation)
			tok, err = r.comma()
		case ch == ':':
			s.setRole(Punctuation)
			tok = []byte{':'}
			if r.opts.Indent {
				tok = append(tok, ' ')
			}
		case ch == '"':
			tok, err = r.str()
			if err == nil {
				err = r.classifyString()
			}
		case isNumberStart(ch):
			tok, err = r.literal(isNumberChar, NumericValue)
		case ch == 't' || ch == 'f' || ch == 'n':
			tok, err = r.literal(unicode.IsLetter, KeywordValue)
		}
		if err != nil {
			_ = e.w.Flush()
			return err
		}

		switch {
		case tok != nil:
			e.token(s, tok)
		case r.opts.Indent && unicode.IsSpace(ch):
			// Source whitespace is replaced by synthesized padding.
		default:
			e.char(s, ch)
		}
		s.advance()
	}

	if r.open != 0 {
		_ = e.w.Flush()
		return s.malformed("container never closed")
	}
	return e.finish(s)
}

func (r *jsonRenderer) openContainer(ch rune) ([]byte, error) {
	s := r.s
	next, ok := s.peek(1)
	if !ok {
		return nil, s.malformed("container never closed")
	}
	if next == closerOf(ch) {
		s.advance()
		return utf8.AppendRune(utf8.AppendRune(nil, ch), next), nil
	}
	r.open++
	tok := utf8.AppendRune(nil, ch)
	if r.opts.Indent {
		r.indent.increment()
		tok = append(tok, '\n')
		tok = append(tok, r.indent.pad(r.indent.level())...)
	}
	return tok, nil
}

func (r *jsonRenderer) closeContainer(ch rune) ([]byte, error) {
	if r.open == 0 {
		return nil, r.s.malformed("unbalanced " + string(ch))
	}
	r.open--
	if !r.opts.Indent {
		return utf8.AppendRune(nil, ch), nil
	}
	r.indent.decrement()
	tok := []byte{'\n'}
	tok = append(tok, r.indent.pad(r.indent.level())...)
	return utf8.AppendRune(tok, ch), nil
}

// comma rejects a comma that is not followed by another member.
func (r *jsonRenderer) comma() ([]byte, error) {
	s := r.s
	s.mark()
	next, ok := s.nextNonSpace()
	s.reset()
	if !ok || next == ',' || isCloseContainer(next) {
		return nil, s.malformed("trailing comma")
	}
	tok := []byte{','}
	if r.opts.Indent {
		tok = append(tok, '\n')
		tok = append(tok, r.indent.pad(r.indent.level())...)
	}
	return tok, nil
}

// str returns the string starting at the current quote with control
// characters expanded. The scanner is left on the closing quote.
func (r *jsonRenderer) str() ([]byte, error) {
	s := r.s
	if next, ok := s.peek(1); ok && next == '"' {
		s.advance()
		return []byte{'"', '"'}, nil
	}

	size, err := r.strSize()
	if err != nil {
		return nil, err
	}
	tok := make([]byte, 0, size)
	tok = append(tok, '"')
	escaped := false
	for {
		ch, _ := s.next()
		switch {
		case escaped:
			escaped = false
			tok = appendStringRune(tok, ch)
		case ch == '\\':
			escaped = true
			tok = append(tok, '\\')
		case ch == '"':
			return append(tok, '"'), nil
		default:
			tok = appendStringRune(tok, ch)
		}
	}
}

// strSize measures the expanded string starting at the current quote,
// including both quotes. The position is restored afterwards.
func (r *jsonRenderer) strSize() (int, error) {
	s := r.s
	s.mark()
	defer s.reset()
	size := 1
	escaped := false
	for {
		ch, ok := s.next()
		if !ok {
			return 0, s.malformed("unterminated string")
		}
		switch {
		case escaped:
			escaped = false
			size += runeSize(ch)
		case ch == '\\':
			escaped = true
			size++
		case ch == '"':
			return size + 1, nil
		default:
			size += runeSize(ch)
		}
	}
}

// classifyString colors the string just read as a key or a value depending
// on the punctuation that follows it.
func (r *jsonRenderer) classifyString() error {
	s := r.s
	s.mark()
	next, ok := s.nextNonSpace()
	s.reset()
	switch {
	case !ok, next == ',', isCloseContainer(next):
		s.setRole(StringValue)
	case next == ':':
		s.setRole(Key)
	default:
		return s.malformed("unexpected " + string(next) + " after string")
	}
	return nil
}

// literal reads a bare number or keyword whose characters satisfy class and
// confirms that a value terminator follows. The scanner is left on the last
// character of the literal.
func (r *jsonRenderer) literal(class func(rune) bool, role Role) ([]byte, error) {
	s := r.s
	s.mark()
	n := 1
	for ch, ok := s.next(); ok && class(ch); ch, ok = s.next() {
		n++
	}
	s.reset()

	tok := make([]byte, 0, n)
	for i := range n {
		ch, _ := s.at(s.position() + i)
		tok = utf8.AppendRune(tok, ch)
	}
	s.advanceBy(n - 1)

	s.mark()
	next, ok := s.nextNonSpace()
	s.reset()
	if ok && next != ',' && !isCloseContainer(next) {
		return nil, s.malformed("unexpected " + string(next) + " after value")
	}
	s.setRole(role)
	return tok, nil
}

func appendStringRune(b []byte, ch rune) []byte {
	switch ch {
	case '\b':
		return append(b, '\\', 'b')
	case '\f':
		return append(b, '\\', 'f')
	case '\n':
		return append(b, '\\', 'n')
	case '\r':
		return append(b, '\\', 'r')
	case '\t':
		return append(b, '\\', 't')
	}
	if unicode.IsControl(ch) {
		return append(b, '\\', '\\')
	}
	return utf8.AppendRune(b, ch)
}

func runeSize(ch rune) int {
	switch ch {
	case '\b', '\f', '\n', '\r', '\t':
		return 2
	}
	if unicode.IsControl(ch) {
		return 2
	}
	return utf8.RuneLen(ch)
}

func isOpenContainer(ch rune) bool  { return ch == '{' || ch == '[' }
func isCloseContainer(ch rune) bool { return ch == '}' || ch == ']' }

func closerOf(ch rune) rune {
	if ch == '{' {
		return '}'
	}
	return ']'
}

func isNumberStart(ch rune) bool {
	return ch == '-' || (ch >= '0' && ch <= '9')
}

func isNumberChar(ch rune) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch == '.', ch == '-', ch == '+', ch == 'e', ch == 'E':
		return true
	}
	return false
}
