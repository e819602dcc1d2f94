package bodyfmt

import (
	"fmt"
	"strings"

	"github.com/amterp/color"
)

// Color is an ANSI foreground color code on the 0-9 scale. The escape
// sequence for a color selects foreground SGR parameter 30+code.
type Color int

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	_
	Default // terminal default foreground
)

var colorNames = map[Color]string{
	Black:   "black",
	Red:     "red",
	Green:   "green",
	Yellow:  "yellow",
	Blue:    "blue",
	Magenta: "magenta",
	Cyan:    "cyan",
	White:   "white",
	Default: "default",
}

// escapes holds the precomputed escape sequence of every color.
var escapes = func() [Default + 1]string {
	var out [Default + 1]string
	for c := range out {
		out[c] = fmt.Sprintf("\x1b[%dm", color.FgBlack+color.Attribute(c))
	}
	return out
}()

// Escape returns the ANSI sequence that selects c as the foreground color.
// Codes that are not named colors fall back to the terminal default.
func (c Color) Escape() string {
	if !c.valid() {
		return escapes[Default]
	}
	return escapes[c]
}

// valid reports whether c names a color. Code 8 would select SGR 38, the
// extended-color introducer, and is not one.
func (c Color) valid() bool {
	_, ok := colorNames[c]
	return ok
}

// String returns the color name.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("color(%d)", int(c))
}

// ParseColor parses a color name such as "cyan" or "default".
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidTheme, s)
}

// Role is the semantic class of a piece of rendered output.
type Role int

const (
	Punctuation Role = iota
	Key
	KeywordValue
	NumericValue
	StringValue
	DefaultText
	Function

	numRoles
)

var roleNames = [numRoles]string{
	Punctuation:  "punctuation",
	Key:          "key",
	KeywordValue: "keyword",
	NumericValue: "numeric",
	StringValue:  "string",
	DefaultText:  "default",
	Function:     "function",
}

// String returns the role name used in theme files.
func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// Roles returns every role in table order.
func Roles() []Role {
	out := make([]Role, numRoles)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// ParseRole parses a role name as used in theme files.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range roleNames {
		if n == name {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidTheme, s)
}

// Palette maps each role to a color. A Palette is never modified after
// construction and may be shared by concurrent renders.
type Palette struct {
	colors [numRoles]Color
}

// DefaultPalette is the built-in color theme.
var DefaultPalette = NewPalette(map[Role]Color{})

// NewPalette returns a palette with the given role assignments. Roles absent
// from m, or assigned a code that is not a named color, keep their default
// color.
func NewPalette(m map[Role]Color) *Palette {
	p := &Palette{colors: [numRoles]Color{
		Punctuation:  White,
		Key:          Cyan,
		KeywordValue: Blue,
		NumericValue: Magenta,
		StringValue:  Yellow,
		DefaultText:  Default,
		Function:     Green,
	}}
	for r, c := range m {
		if r >= 0 && r < numRoles && c.valid() {
			p.colors[r] = c
		}
	}
	return p
}

// Color returns the color assigned to r.
func (p *Palette) Color(r Role) Color {
	if r < 0 || r >= numRoles {
		return p.colors[DefaultText]
	}
	return p.colors[r]
}

// Escape returns the escape sequence for the color assigned to r.
func (p *Palette) Escape(r Role) string {
	return p.Color(r).Escape()
}
