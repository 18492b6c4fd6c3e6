// Package colors provides ANSI terminal styling for diagnostic output.
package colors

import (
	"fmt"
	"io"
	"os"
)

// COLOR is an ANSI escape prefix. Printing through a COLOR wraps the text
// with the escape code and a reset.
type COLOR string

const RESET = "\033[0m"

const (
	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	GREY   COLOR = "\033[90m"

	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_YELLOW COLOR = "\033[1;33m"
	BOLD_PURPLE COLOR = "\033[1;35m"
	BOLD_CYAN   COLOR = "\033[1;36m"
)

// Print writes to stderr in this color.
func (c COLOR) Print(a ...interface{}) {
	c.Fprint(os.Stderr, a...)
}

// Printf writes a formatted string to stderr in this color.
func (c COLOR) Printf(format string, a ...interface{}) {
	c.Fprintf(os.Stderr, format, a...)
}

// Println writes to stderr in this color, followed by a newline.
func (c COLOR) Println(a ...interface{}) {
	c.Fprintln(os.Stderr, a...)
}

// Fprint writes to w in this color.
func (c COLOR) Fprint(w io.Writer, a ...interface{}) {
	fmt.Fprint(w, string(c))
	fmt.Fprint(w, a...)
	fmt.Fprint(w, RESET)
}

// Fprintf writes a formatted string to w in this color.
func (c COLOR) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, string(c))
	fmt.Fprintf(w, format, a...)
	fmt.Fprint(w, RESET)
}

// Fprintln writes to w in this color, followed by a newline. The reset is
// emitted before the newline so wrapped lines don't bleed color.
func (c COLOR) Fprintln(w io.Writer, a ...interface{}) {
	fmt.Fprint(w, string(c))
	fmt.Fprint(w, a...)
	fmt.Fprint(w, RESET)
	fmt.Fprintln(w)
}
