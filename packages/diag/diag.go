package diag

import (
	"fmt"
	"strings"
)

// Detail is a single key/value line in a diagnostic.
type Detail struct {
	Key   string
	Value string
}

// Diagnostic describes a single assertion failure: a title line and any
// number of key/value details.
type Diagnostic struct {
	Title   string
	Details []Detail
}

// New creates a diagnostic with the given title.
func New(title string) *Diagnostic {
	return &Diagnostic{Title: title}
}

// Add appends a detail line. Trailing newlines are trimmed from the value so
// that single-line file contents render on one line; interior newlines are
// preserved and trigger the block layout.
func (d *Diagnostic) Add(key, value string) {
	d.Details = append(d.Details, Detail{
		Key:   key,
		Value: strings.TrimRight(value, "\n"),
	})
}

// Get returns the value for a key and whether it was present.
func (d *Diagnostic) Get(key string) (string, bool) {
	for _, det := range d.Details {
		if det.Key == key {
			return det.Value, true
		}
	}
	return "", false
}

// String renders the diagnostic. Single-line values share a fixed key
// column; multi-line values are rendered as an indented block headed by the
// key and line count.
func (d *Diagnostic) String() string {
	width := 0
	for _, det := range d.Details {
		if len(det.Key) > width {
			width = len(det.Key)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- %s --\n", d.Title)
	for _, det := range d.Details {
		if strings.Contains(det.Value, "\n") {
			lines := strings.Split(det.Value, "\n")
			fmt.Fprintf(&b, "%s (%d lines):\n", det.Key, len(lines))
			for _, line := range lines {
				fmt.Fprintf(&b, "  %s\n", line)
			}
			continue
		}
		fmt.Fprintf(&b, "%-*s : %s\n", width, det.Key, det.Value)
	}
	b.WriteString("--")
	return b.String()
}
