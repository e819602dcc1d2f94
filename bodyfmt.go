package bodyfmt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidTheme      = errors.New("invalid theme")
)

// Format identifies a body renderer.
type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	HTML Format = "html"
	Form Format = "form"
	Raw  Format = "raw"
)

// FormContentType is the media type rendered by the form-data renderer.
const FormContentType = "application/x-www-form-urlencoded"

var formats = []Format{JSON, XML, HTML, Form, Raw}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Options control a render.
type Options struct {
	// Color enables ANSI foreground colors.
	Color bool
	// Indent enables indentation for formats that support it.
	Indent bool
	// IndentWidth overrides the spaces per level. Zero uses IndentWidth().
	IndentWidth int
	// Palette selects the colors. Nil uses DefaultPalette.
	Palette *Palette
	// AlignHeaders pads header names to a common width in WriteHeaders.
	AlignHeaders bool
	// Logger receives degraded-rendering notices from Write. Nil discards them.
	Logger *slog.Logger
}

func (o Options) palette() *Palette {
	if o.Palette == nil {
		return DefaultPalette
	}
	return o.Palette
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Renderer writes one body to an output sink.
type Renderer interface {
	Render(w io.Writer) error
}

// Detect selects the format for a declared content type. The first matching
// rule wins: no color and no indentation, or an empty type, is Raw; a type
// containing "json" is JSON, "xml" is XML, "html" is HTML; the form media
// type is Form; anything else is Raw.
func Detect(contentType string, color, indent bool) Format {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case !color && !indent, ct == "":
		return Raw
	case strings.Contains(ct, "json"):
		return JSON
	case strings.Contains(ct, "xml"):
		return XML
	case strings.Contains(ct, "html"):
		return HTML
	case mediaType(ct) == FormContentType:
		return Form
	default:
		return Raw
	}
}

func mediaType(ct string) string {
	base, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(base)
}

// New returns the renderer for a declared content type. The body is copied.
func New(contentType string, body []byte, opts Options) Renderer {
	r, _ := NewFormat(Detect(contentType, opts.Color, opts.Indent), body, opts)
	return r
}

// NewFormat returns the renderer for format f. The body is copied.
func NewFormat(f Format, body []byte, opts Options) (Renderer, error) {
	switch f {
	case JSON:
		return newJSONRenderer(body, opts), nil
	case XML:
		return newMarkupRenderer(body, opts), nil
	case HTML:
		// HTML is often not well-formed XML, so it is never pretty-printed.
		opts.Indent = false
		return newMarkupRenderer(body, opts), nil
	case Form:
		return newFormRenderer(body, opts), nil
	case Raw:
		return newRawRenderer(body), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Write renders body to w. Output is buffered so that a body the renderer
// cannot scan is written raw instead, after logging a notice to opts.Logger.
func Write(w io.Writer, contentType string, body []byte, opts Options) error {
	var buf bytes.Buffer
	err := New(contentType, body, opts).Render(&buf)
	if errors.Is(err, ErrMalformedInput) {
		opts.logger().Warn("rendering degraded, writing raw body",
			"content_type", contentType,
			"error", err,
		)
		buf.Reset()
		buf.Write(body)
	} else if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Marshal renders body and returns the bytes.
func Marshal(contentType string, body []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, contentType, body, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
