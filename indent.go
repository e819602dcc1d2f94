package bodyfmt

import "strings"

// indenter tracks container nesting depth and turns it into padding.
type indenter struct {
	depth int
	width int
}

func newIndenter(width int) *indenter {
	if width <= 0 {
		width = IndentWidth()
	}
	return &indenter{width: width}
}

func (in *indenter) zero()      { in.depth = 0 }
func (in *indenter) increment() { in.depth++ }
func (in *indenter) level() int { return in.depth }

// decrement lowers the depth, never below zero.
func (in *indenter) decrement() {
	if in.depth > 0 {
		in.depth--
	}
}

// pad returns the spaces for the given depth.
func (in *indenter) pad(depth int) string {
	if depth <= 0 || in.width == 0 {
		return ""
	}
	return strings.Repeat(" ", depth*in.width)
}
