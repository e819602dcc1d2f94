package bodyfmt

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

type markupRenderer struct {
	s      *scanner
	indent *indenter
	opts   Options

	// Per-tag state.
	inDeclaration bool
}

func newMarkupRenderer(body []byte, opts Options) *markupRenderer {
	return &markupRenderer{
		s:      newScanner(body, opts.palette()),
		indent: newIndenter(opts.IndentWidth),
		opts:   opts,
	}
}

// Render writes the markup body. With indentation on, the body is first
// pretty-printed as XML.
func (r *markupRenderer) Render(w io.Writer) error {
	s := r.s
	if r.opts.Indent {
		pretty, err := indentXML(s.buf, r.indent.width)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		s.buf = pretty
	}
	s.rewind()
	e := newEmitter(w, r.opts.Color)

	for !s.done() {
		ch := s.current()
		var tok []byte
		var err error

		switch {
		case ch == '<' && r.startsTag():
			tok, err = r.tag()
		case unicode.IsSpace(ch):
			tok = r.run(unicode.IsSpace)
		default:
			s.setRole(DefaultText)
			tok = r.text()
		}
		r.inDeclaration = false
		if err != nil {
			_ = e.w.Flush()
			return err
		}
		e.token(s, tok)
		s.advance()
	}
	return e.finish(s)
}

// startsTag reports whether the '<' at the position opens a tag, processing
// instruction, comment or declaration.
func (r *markupRenderer) startsTag() bool {
	next, ok := r.s.peek(1)
	if !ok {
		// A dangling '<' is reported by tag.
		return true
	}
	return next == '?' || next == '/' || next == '!' ||
		unicode.IsLetter(next) || unicode.IsDigit(next)
}

// tag reads one tag starting at '<' and leaves the scanner on its '>'.
func (r *markupRenderer) tag() ([]byte, error) {
	s := r.s
	next, ok := s.peek(1)
	if !ok {
		return nil, s.malformed("unterminated tag")
	}
	if next != '!' {
		s.setRole(KeywordValue)
		return r.element()
	}
	s.setRole(NumericValue)
	switch {
	case r.lookingAt(commentOpen):
		return r.section(commentOpen, commentClose, "comment")
	case r.lookingAt(cdataOpen):
		return r.section(cdataOpen, cdataClose, "CDATA section")
	}
	r.inDeclaration = true
	return r.element()
}

const (
	commentOpen  = "<!--"
	commentClose = "-->"
	cdataOpen    = "<![CDATA["
	cdataClose   = "]]>"
)

// lookingAt reports whether the content at the position starts with prefix.
func (r *markupRenderer) lookingAt(prefix string) bool {
	s := r.s
	i := s.position()
	for _, want := range prefix {
		if ch, ok := s.at(i); !ok || ch != want {
			return false
		}
		i++
	}
	return true
}

// section reads a comment or CDATA section verbatim, from open through the
// first end that does not overlap open, and leaves the scanner on its
// last rune.
func (r *markupRenderer) section(open, end, what string) ([]byte, error) {
	s := r.s
	start := s.position()
	body := start + utf8.RuneCountInString(open)
	n := utf8.RuneCountInString(end)
	s.advanceBy(body - start - 1)
	for {
		if _, ok := s.next(); !ok {
			return nil, s.malformed("unterminated " + what)
		}
		from := s.position() - n + 1
		if from >= body && string(s.buf[from:s.position()+1]) == end {
			break
		}
	}
	return runesToBytes(s.buf[start : s.position()+1]), nil
}

// element reads an ordinary tag or declaration, embedding a color escape at
// each internal transition.
func (r *markupRenderer) element() ([]byte, error) {
	s := r.s
	size, err := r.elementSize()
	if err != nil {
		return nil, err
	}

	tagColor := s.color()
	tok := make([]byte, 0, size)
	switchTo := func(role Role) {
		c := s.palette.Color(role)
		if c == tagColor {
			return
		}
		tagColor = c
		if r.opts.Color {
			tok = append(tok, c.Escape()...)
		}
	}

	tok = append(tok, '<')
	s.advance()
	tok = utf8.AppendRune(tok, s.current())
	ch, _ := s.next()
	for ch != '>' {
		switch {
		case ch == '"' || ch == '\'':
			if !r.inDeclaration {
				switchTo(StringValue)
			}
			tok = r.quoted(tok, ch)
		case r.inDeclaration:
			tok = utf8.AppendRune(tok, ch)
		case unicode.IsSpace(ch):
			// The last whitespace rune before a name starts the attribute.
			tok = utf8.AppendRune(tok, ch)
			if next, _ := s.peek(1); isAttrNameChar(next) {
				switchTo(Key)
			}
		case ch == '=':
			switchTo(Punctuation)
			tok = append(tok, '=')
		case ch == '?' || ch == '/':
			switchTo(KeywordValue)
			tok = utf8.AppendRune(tok, ch)
		default:
			tok = utf8.AppendRune(tok, ch)
		}
		ch, _ = s.next()
	}
	if !r.inDeclaration {
		switchTo(KeywordValue)
	}
	return append(tok, '>'), nil
}

// quoted appends the quoted section starting at the current quote and leaves
// the scanner on the closing quote. elementSize has already checked that it
// terminates.
func (r *markupRenderer) quoted(tok []byte, quote rune) []byte {
	s := r.s
	tok = utf8.AppendRune(tok, quote)
	for {
		ch, _ := s.next()
		tok = utf8.AppendRune(tok, ch)
		if ch == quote {
			return tok
		}
	}
}

// elementSize checks that the tag at the position is terminated and returns
// its byte size plus room for one escape at every possible transition.
func (r *markupRenderer) elementSize() (int, error) {
	s := r.s
	s.mark()
	defer s.reset()
	size := 1
	transitions := 1
	s.advance()
	for {
		ch, ok := s.next()
		if !ok {
			return 0, s.malformed("unterminated tag")
		}
		size += utf8.RuneLen(ch)
		switch ch {
		case '>':
			if r.opts.Color && !r.inDeclaration {
				size += transitions * len(escapes[Default])
			}
			return size + 1, nil
		case '"', '\'':
			quote := ch
			for {
				ch, ok = s.next()
				if !ok {
					return 0, s.malformed("unterminated attribute value")
				}
				size += utf8.RuneLen(ch)
				if ch == quote {
					break
				}
			}
			transitions++
		case '=', '?', '/':
			transitions++
		default:
			if unicode.IsSpace(ch) {
				transitions++
			}
		}
	}
}

// run reads a run of runes matching class and leaves the scanner on its last
// rune.
func (r *markupRenderer) run(class func(rune) bool) []byte {
	s := r.s
	start := s.position()
	for ch, ok := s.peek(1); ok && class(ch); ch, ok = s.peek(1) {
		s.advance()
	}
	return runesToBytes(s.buf[start : s.position()+1])
}

// text reads character data up to the next '<' that opens a tag.
func (r *markupRenderer) text() []byte {
	s := r.s
	start := s.position()
	for {
		ch, ok := s.peek(1)
		if !ok {
			break
		}
		if ch == '<' {
			s.advance()
			opens := r.startsTag()
			s.retreat()
			if opens {
				break
			}
		}
		s.advance()
	}
	return runesToBytes(s.buf[start : s.position()+1])
}

func isAttrNameChar(ch rune) bool {
	switch ch {
	case 0, '>', '/', '?', '=', '"', '\'':
		return false
	}
	return !unicode.IsSpace(ch)
}

func runesToBytes(rs []rune) []byte {
	b := make([]byte, 0, len(rs))
	for _, r := range rs {
		b = utf8.AppendRune(b, r)
	}
	return b
}
