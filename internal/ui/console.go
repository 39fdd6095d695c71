package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ConsoleSink prints sweep messages to one stream and errors, prefixed with
// "Error: ", to another. It is safe for concurrent use.
type ConsoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	color  bool
	styles Styles
}

// NewConsoleSink returns a sink writing to out and errOut. Colors are used
// only when noColor is false and out is a terminal.
func NewConsoleSink(out, errOut io.Writer, noColor bool) *ConsoleSink {
	r := lipgloss.NewRenderer(out)
	return &ConsoleSink{
		out:    out,
		errOut: errOut,
		color:  !noColor && IsTerminal(out),
		styles: NewStyles(r),
	}
}

// Message implements sweep.Sink.
func (c *ConsoleSink) Message(text string) {
	c.println(c.out, c.styles.Message, text)
}

// Error implements sweep.Sink.
func (c *ConsoleSink) Error(text string) {
	c.println(c.errOut, c.styles.Error, "Error: "+text)
}

// Warning prints a notice the user should act on.
func (c *ConsoleSink) Warning(text string) {
	c.println(c.out, c.styles.Warning, text)
}

// Header prints a section title.
func (c *ConsoleSink) Header(text string) {
	c.println(c.out, c.styles.Header, text)
}

// Field prints an aligned "label: value" line.
func (c *ConsoleSink) Field(label, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := fmt.Sprintf("  %-16s", label+":")
	if c.color {
		l = c.styles.Muted.Render(l)
		value = c.styles.Value.Render(value)
	}
	fmt.Fprintln(c.out, l+value)
}

func (c *ConsoleSink) println(w io.Writer, style lipgloss.Style, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.color {
		text = style.Render(text)
	}
	fmt.Fprintln(w, text)
}

// IsTerminal reports whether w is an interactive console.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
