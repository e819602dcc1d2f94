package bodyfmt

import (
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// DefaultIndentWidth is the number of spaces per nesting level used when no
// valid setting is present.
const DefaultIndentWidth = 2

// MaxIndentWidth is the largest accepted spaces-per-level setting.
const MaxIndentWidth = 16

// IndentEnv names the environment variable holding the process-wide indent
// width.
const IndentEnv = "BODYFMT_INDENT"

var indentWidth = sync.OnceValue(func() int {
	v := viper.New()
	v.SetEnvPrefix("bodyfmt")
	v.SetDefault("indent", DefaultIndentWidth)
	_ = v.BindEnv("indent", IndentEnv)
	return parseIndentWidth(v.GetString("indent"))
})

// IndentWidth returns the process-wide spaces per indent level. The value is
// read from the environment on first use and fixed afterwards.
func IndentWidth() int {
	return indentWidth()
}

// parseIndentWidth converts a setting to a width. Anything that is not an
// integer in [1, MaxIndentWidth] yields the default.
func parseIndentWidth(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxIndentWidth {
		return DefaultIndentWidth
	}
	return n
}
