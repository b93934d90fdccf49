// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sheetmind/sheetmind/internal/engine"
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest io.Writer
}

// NewWriter creates an output writer bound to stdout.
func NewWriter() *Writer {
	return &Writer{dest: os.Stdout}
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

// WriteResponse renders an engine response: the explanation in plain text,
// operation successes in green and failures in red.
func (w *Writer) WriteResponse(resp *engine.Response) {
	for _, line := range strings.Split(resp.Text, "\n") {
		switch {
		case strings.HasPrefix(line, "✓"):
			color.New(color.FgGreen).Fprintln(w.dest, line)
		case strings.HasPrefix(line, "✗"):
			color.New(color.FgRed).Fprintln(w.dest, line)
		default:
			fmt.Fprintln(w.dest, line)
		}
	}
}

// WriteError writes an error message to stderr.
func WriteError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
