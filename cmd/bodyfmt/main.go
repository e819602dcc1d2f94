// Command bodyfmt renders an HTTP body, or a whole HTTP response, for the
// terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bodyfmt:", err)
		os.Exit(1)
	}
}
