// Package bodyfmt renders HTTP message bodies for the terminal.
//
// A body is rendered in a single left-to-right pass, without building a parse
// tree, with optional ANSI foreground colors and optional indentation.
// Supported formats are JSON, XML, HTML, and URL-encoded form data; anything
// else is copied through unchanged. The central entry points are [Write] and
// [Marshal], which pick a renderer from the declared content type:
//
//	err := bodyfmt.Write(os.Stdout, resp.Header.Get("Content-Type"), body,
//		bodyfmt.Options{Color: true, Indent: true})
//
// # Format Selection
//
// [Detect] maps a content type to a [Format]. The first matching rule wins:
//
//   - no color and no indentation, or an empty type → [Raw]
//   - contains "json" → [JSON]
//   - contains "xml" → [XML]
//   - contains "html" → [HTML] (never indented)
//   - application/x-www-form-urlencoded → [Form]
//   - anything else → [Raw]
//
// Use [NewFormat] to pick a renderer explicitly and [ParseFormat] to convert
// a flag value into a [Format].
//
// # Colors
//
// Output is colored by semantic [Role]: punctuation, keys, keyword values,
// numeric values, string values, default text, and functions. A [Palette]
// maps roles to colors; [DefaultPalette] is used unless [Options.Palette] is
// set. [ParsePalette] and [LoadPalette] read a palette from YAML.
//
// # Indentation
//
// JSON is indented by nesting depth. XML is pretty-printed before coloring.
// The spaces per level come from [Options.IndentWidth], or from the
// BODYFMT_INDENT environment variable read once per process (see
// [IndentWidth]).
//
// # Headers
//
// [WriteRequestLine], [WriteStatusLine], and [WriteHeaders] render the rest
// of an HTTP message in the same palette.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrMalformedInput] — the body cannot be scanned (unterminated string,
//     tag or comment, unbalanced containers)
//   - [ErrUnsupportedFormat] — unknown format name
//   - [ErrInvalidTheme] — unknown role or color in a theme
//
// A renderer's Render method does not roll back output written before an
// error. [Write] and [Marshal] render into a buffer first and fall back to the
// raw body when the input is malformed.
package bodyfmt
