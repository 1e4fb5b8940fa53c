// internal/writers/text.go
package writers

import (
	"fmt"
	"io"
	"strconv"

	"abnum/core/numbering"
)

func init() {
	Register("text", WriteText)
}

// WriteText writes a human-readable block per sequence: metadata lines
// followed by one aligned "key residue" line per numbered position.
func WriteText(w io.Writer, rs *numbering.ResultSet) error {
	return rs.Each(func(name string, r numbering.Result) error {
		if _, err := fmt.Fprintf(w, "# %s\n# Chain: %s  Score: %s  Scheme: %s\n",
			name, r.ChainType, strconv.FormatFloat(r.Score, 'g', -1, 64), r.Scheme); err != nil {
			return err
		}
		if r.Failed() {
			_, err := fmt.Fprintf(w, "# Error: %s\n//\n", r.Error)
			return err
		}

		width := 0
		for _, res := range r.Numbering {
			if l := len(res.Key.String()); l > width {
				width = l
			}
		}
		for _, res := range r.Numbering {
			if _, err := fmt.Fprintf(w, "%-*s %c\n", width, res.Key.String(), res.Residue); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "//\n")
		return err
	})
}
