// internal/writers/csv.go
package writers

import (
	"encoding/csv"
	"io"
	"strconv"

	"abnum/core/numbering"
)

func init() {
	Register("csv", WriteCSV)
}

var metadataColumns = []string{"Name", "Chain", "Score", "Query start", "Query end"}

// requiredPositions are always present as residue columns, observed or not.
const (
	firstRequiredPosition = 1
	lastRequiredPosition  = 128
)

// Iterate is a re-iterable source of result sets. The streaming CSV writer
// calls it twice: once to collect the residue-key universe for the header,
// once to write rows. A single-pass cursor cannot back it; re-open the
// underlying container on each call instead.
type Iterate func(fn func(rs *numbering.ResultSet) error) error

// WriteCSV writes a buffered result set as an aligned CSV table: the fixed
// metadata columns, then one column per residue key observed in any
// sequence, positions 1-128 always included. Missing residues render as '-';
// a failed sequence contributes a metadata-only row. Column order follows
// the run's scheme (IMGT inward insertion order, default order otherwise).
func WriteCSV(w io.Writer, rs *numbering.ResultSet) error {
	return WriteCSVStream(w, func(fn func(*numbering.ResultSet) error) error {
		return fn(rs)
	})
}

// WriteCSVStream is the two-pass variant over a re-iterable source, used for
// runs whose results were streamed chunk-by-chunk.
func WriteCSVStream(w io.Writer, iterate Iterate) error {
	universe := make(map[numbering.Key]struct{}, lastRequiredPosition)
	for p := firstRequiredPosition; p <= lastRequiredPosition; p++ {
		universe[numbering.Key{Position: p}] = struct{}{}
	}

	// Pass 1: key universe and scheme. All sequences of a run share one
	// scheme; aligning mixed schemes would be meaningless anyway.
	scheme := ""
	err := iterate(func(rs *numbering.ResultSet) error {
		return rs.Each(func(_ string, r numbering.Result) error {
			if r.Scheme != "" {
				scheme = r.Scheme
			}
			for _, res := range r.Numbering {
				universe[res.Key] = struct{}{}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	keys := make([]numbering.Key, 0, len(universe))
	for k := range universe {
		keys = append(keys, k)
	}
	ordered := numbering.OrderKeys(keys, scheme)

	cw := csv.NewWriter(w)
	header := append(append([]string(nil), metadataColumns...), keyStrings(ordered)...)
	if err := cw.Write(header); err != nil {
		return err
	}

	// Pass 2: rows.
	err = iterate(func(rs *numbering.ResultSet) error {
		return rs.Each(func(name string, r numbering.Result) error {
			return cw.Write(csvRow(name, r, ordered))
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func keyStrings(keys []numbering.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func csvRow(name string, r numbering.Result, ordered []numbering.Key) []string {
	row := make([]string, 0, len(metadataColumns)+len(ordered))
	row = append(row, name, r.ChainType, strconv.FormatFloat(r.Score, 'g', -1, 64))
	if r.Failed() {
		row = append(row, "", "")
	} else {
		row = append(row, strconv.Itoa(r.QueryStart), strconv.Itoa(r.QueryEnd))
	}

	occupied := make(map[numbering.Key]byte, len(r.Numbering))
	for _, res := range r.Numbering {
		occupied[res.Key] = res.Residue
	}
	for _, k := range ordered {
		if v, ok := occupied[k]; ok {
			row = append(row, string(v))
		} else {
			row = append(row, string(numbering.Gap))
		}
	}
	return row
}
