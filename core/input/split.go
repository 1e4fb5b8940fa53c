// core/input/split.go
package input

import (
	"fmt"
	"strings"
)

// Delimiters are the characters used to join the parts of a paired sequence
// into a single string.
const Delimiters = `-/\`

func isDelimiter(b byte) bool { return b == '-' || b == '/' || b == '\\' }

// Split replaces each delimited record with its parts, named name-1,
// name-2, ... (zero-padded to the digit width of the part total), keeping the parts at
// the position of the originating record. Leading and trailing delimiters
// are stripped first; a record without remaining delimiters passes through
// unchanged. Not applied to structure-derived input, whose chains are
// already individual records.
func Split(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		out = append(out, splitRecord(rec)...)
	}
	return out
}

func splitRecord(rec Record) []Record {
	seq := strings.Trim(rec.Sequence, Delimiters)
	if !strings.ContainsAny(seq, Delimiters) {
		return []Record{{Name: rec.Name, Sequence: seq}}
	}

	parts := splitOnDelimiters(seq)
	width := len(fmt.Sprint(len(parts)))
	recs := make([]Record, 0, len(parts))
	for i, part := range parts {
		recs = append(recs, Record{
			Name:     fmt.Sprintf("%s-%0*d", rec.Name, width, i+1),
			Sequence: part,
		})
	}
	return recs
}

// splitOnDelimiters splits on every single delimiter byte, keeping empty
// parts between consecutive delimiters so part numbering stays aligned with
// the delimiter count.
func splitOnDelimiters(s string) []string {
	var parts []string
	last := 0
	for i := 0; i < len(s); i++ {
		if isDelimiter(s[i]) {
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}
