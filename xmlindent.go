package bodyfmt

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;")
)

// xmlIndenter re-emits an XML token stream one node per line.
type xmlIndenter struct {
	buf     bytes.Buffer
	unit    string
	depth   int
	started bool
	// pending is a start tag whose '>' has not been written yet, so that an
	// immediately following end tag can collapse it to "<x/>".
	pending bool
	// inline is set after character data so the closing tag stays on the
	// same line.
	inline bool
}

// indentXML pretty-prints src with width spaces per level. Whitespace-only
// character data is dropped and the rest is trimmed. A document with no
// nodes is returned unchanged.
func indentXML(src []rune, width int) ([]rune, error) {
	dec := xml.NewDecoder(strings.NewReader(string(src)))
	// The content is already decoded text; a declared encoding is informative.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	x := &xmlIndenter{unit: strings.Repeat(" ", width)}
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := x.token(tok); err != nil {
			return nil, err
		}
	}
	if x.depth != 0 {
		return nil, errors.New("XML document ends inside an element")
	}
	if !x.started {
		// Nothing but whitespace: leave it as it was.
		return src, nil
	}
	x.buf.WriteByte('\n')
	return []rune(x.buf.String()), nil
}

func (x *xmlIndenter) token(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		x.closePending()
		x.newline()
		x.buf.WriteByte('<')
		x.buf.WriteString(qualified(t.Name))
		for _, a := range t.Attr {
			x.buf.WriteByte(' ')
			x.buf.WriteString(qualified(a.Name))
			x.buf.WriteString(`="`)
			x.buf.WriteString(attrEscaper.Replace(a.Value))
			x.buf.WriteByte('"')
		}
		x.pending = true
		x.inline = false
		x.depth++
	case xml.EndElement:
		if x.depth == 0 {
			return fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
		}
		x.depth--
		if x.pending {
			x.buf.WriteString("/>")
			x.pending = false
			x.inline = false
			return nil
		}
		if !x.inline {
			x.newline()
		}
		x.buf.WriteString("</")
		x.buf.WriteString(qualified(t.Name))
		x.buf.WriteByte('>')
		x.inline = false
	case xml.CharData:
		text := strings.TrimSpace(string(t))
		if text == "" {
			return nil
		}
		x.closePending()
		x.buf.WriteString(textEscaper.Replace(text))
		x.started = true
		x.inline = true
	case xml.Comment:
		x.closePending()
		x.newline()
		x.buf.WriteString("<!--")
		x.buf.Write(t)
		x.buf.WriteString("-->")
		x.inline = false
	case xml.ProcInst:
		x.closePending()
		x.newline()
		x.buf.WriteString("<?")
		x.buf.WriteString(t.Target)
		if len(t.Inst) > 0 {
			x.buf.WriteByte(' ')
			x.buf.Write(t.Inst)
		}
		x.buf.WriteString("?>")
	case xml.Directive:
		x.closePending()
		x.newline()
		x.buf.WriteString("<!")
		x.buf.Write(t)
		x.buf.WriteByte('>')
	}
	return nil
}

func (x *xmlIndenter) closePending() {
	if x.pending {
		x.buf.WriteByte('>')
		x.pending = false
	}
}

// newline starts a new line at the current depth. Nothing is written before
// the first node.
func (x *xmlIndenter) newline() {
	if !x.started {
		x.started = true
		return
	}
	x.buf.WriteByte('\n')
	x.buf.WriteString(strings.Repeat(x.unit, x.depth))
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
