// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"abnum/core/numbering"
)

// Formats maps an output format name to its buffered writer. Writers
// register themselves in init() blocks; registration is last-wins.
var Formats = map[string]func(w io.Writer, rs *numbering.ResultSet) error{}

// Register adds or replaces the writer for a format.
func Register(format string, fn func(io.Writer, *numbering.ResultSet) error) {
	Formats[format] = fn
}

// Write dispatches a buffered result set to the registered writer.
func Write(format string, w io.Writer, rs *numbering.ResultSet) error {
	fn, ok := Formats[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, rs)
}
