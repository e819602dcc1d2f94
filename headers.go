package bodyfmt

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// headerStyle writes escapes only when color output is on.
type headerStyle struct {
	p     *Palette
	color bool
}

func (h headerStyle) role(r Role) string {
	if !h.color {
		return ""
	}
	return h.p.Escape(r)
}

func (h headerStyle) raw(c Color) string {
	if !h.color {
		return ""
	}
	return c.Escape()
}

func (h headerStyle) proto(proto string) string {
	name, version, ok := strings.Cut(proto, "/")
	if !ok {
		return h.role(KeywordValue) + proto
	}
	return h.role(KeywordValue) + name + h.role(DefaultText) + "/" + h.role(KeywordValue) + version
}

// WriteRequestLine writes "METHOD target PROTO" followed by a newline.
func WriteRequestLine(w io.Writer, method, target, proto string, opts Options) error {
	h := headerStyle{p: opts.palette(), color: opts.Color}
	_, err := fmt.Fprintf(w, "%s%s %s%s %s%s\n",
		h.role(Function), method,
		h.role(Key), target,
		h.proto(proto), h.role(DefaultText),
	)
	return err
}

// WriteStatusLine writes "PROTO code reason" followed by a newline. The
// status code is colored by its class.
func WriteStatusLine(w io.Writer, proto string, code int, reason string, opts Options) error {
	h := headerStyle{p: opts.palette(), color: opts.Color}
	line := h.proto(proto) + " " + h.raw(statusColor(code)) + strconv.Itoa(code)
	if reason != "" {
		line += " " + h.role(Key) + reason
	}
	_, err := fmt.Fprintf(w, "%s%s\n", line, h.role(DefaultText))
	return err
}

// WriteHeaders writes one "Name: value" line per header in name order.
// Multiple values are joined with commas.
func WriteHeaders(w io.Writer, header http.Header, opts Options) error {
	h := headerStyle{p: opts.palette(), color: opts.Color}
	names := make([]string, 0, len(header))
	width := 0
	for name := range header {
		names = append(names, name)
		width = max(width, runewidth.StringWidth(http.CanonicalHeaderKey(name)))
	}
	slices.Sort(names)

	for _, name := range names {
		display := http.CanonicalHeaderKey(name)
		pad := ""
		if opts.AlignHeaders {
			pad = strings.Repeat(" ", width-runewidth.StringWidth(display))
		}
		_, err := fmt.Fprintf(w, "%s%s%s:%s %s%s\n",
			h.role(Key), display,
			h.role(Punctuation), pad,
			h.role(DefaultText), strings.Join(header[name], ","),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func statusColor(code int) Color {
	switch {
	case code >= 200 && code < 300:
		return Green
	case code >= 300 && code < 400:
		return Yellow
	case code >= 400 && code < 500:
		return Magenta
	case code >= 500:
		return Red
	default:
		return Blue
	}
}
