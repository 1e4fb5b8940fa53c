// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"

	"abnum/core/numbering"
	"abnum/internal/jsonutil"
	"abnum/pkg/api"
)

func init() {
	Register("json", WriteJSON)
}

// WriteJSON writes the result set as a pretty-printed JSON array of v1
// records, in iteration order.
func WriteJSON(w io.Writer, rs *numbering.ResultSet) error {
	records := make([]api.RecordV1, 0, rs.Len())
	_ = rs.Each(func(name string, r numbering.Result) error {
		records = append(records, ToAPIRecord(name, r))
		return nil
	})
	return jsonutil.EncodePretty(w, records)
}

// JSONStream appends result sets to a single JSON array incrementally, for
// runs too large to buffer. Close writes the closing bracket.
type JSONStream struct {
	w     io.Writer
	first bool
	err   error
}

// NewJSONStream opens the array.
func NewJSONStream(w io.Writer) (*JSONStream, error) {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return nil, err
	}
	return &JSONStream{w: w, first: true}, nil
}

// Append writes every record of rs onto the array.
func (s *JSONStream) Append(rs *numbering.ResultSet) error {
	if s.err != nil {
		return s.err
	}
	s.err = rs.Each(func(name string, r numbering.Result) error {
		if !s.first {
			if _, err := io.WriteString(s.w, ",\n"); err != nil {
				return err
			}
		}
		s.first = false
		b, err := json.Marshal(ToAPIRecord(name, r))
		if err != nil {
			return err
		}
		_, err = s.w.Write(b)
		return err
	})
	return s.err
}

// Close terminates the array.
func (s *JSONStream) Close() error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(s.w, "\n]\n")
	return err
}
