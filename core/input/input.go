// core/input/input.go
package input

import (
	"errors"
	"fmt"

	"abnum/core/fasta"
)

// Record is one named peptide sequence. Names are unique within a run.
type Record struct {
	Name     string
	Sequence string
}

// ErrInvalidInput is returned by Coerce for a zero-value or unrecognised
// Input.
var ErrInvalidInput = errors.New("invalid input type")

type kind int

const (
	kindNone kind = iota
	kindPath
	kindSequence
	kindPair
	kindSequences
	kindRecords
)

// Input is a tagged union over the accepted input shapes. Build one with the
// constructors below; the zero value is invalid.
type Input struct {
	kind kind
	path string
	seq  string
	pair Record
	list []string
	recs []Record
}

// Path wraps a filesystem path to a FASTA or PIR file.
func Path(p string) Input { return Input{kind: kindPath, path: p} }

// Sequence wraps a single bare sequence string.
func Sequence(s string) Input { return Input{kind: kindSequence, seq: s} }

// Pair wraps a single name-sequence pair.
func Pair(name, seq string) Input {
	return Input{kind: kindPair, pair: Record{Name: name, Sequence: seq}}
}

// Sequences wraps a list of bare sequence strings, to be named sequentially.
func Sequences(seqs ...string) Input {
	return Input{kind: kindSequences, list: append([]string(nil), seqs...)}
}

// Records wraps an ordered list of name-sequence pairs. This is also the
// shape for an ordered mapping, which Go spells as a slice of pairs.
func Records(recs ...Record) Input {
	return Input{kind: kindRecords, recs: append([]Record(nil), recs...)}
}

// Coerce normalises any accepted input shape into an ordered list of named
// sequence records:
//   - Path: the file is read (gzip-transparent FASTA/PIR);
//   - Sequence: named "sequence";
//   - Pair / Records: passed through, order preserved;
//   - Sequences: named "sequence-1", "sequence-2", ... zero-padded to the
//     digit width of the count.
func Coerce(in Input) ([]Record, error) {
	switch in.kind {
	case kindPath:
		entries, err := fasta.ReadFile(in.path)
		if err != nil {
			return nil, err
		}
		recs := make([]Record, 0, len(entries))
		for _, e := range entries {
			recs = append(recs, Record{Name: e.Name, Sequence: e.Seq})
		}
		return recs, nil

	case kindSequence:
		return []Record{{Name: "sequence", Sequence: in.seq}}, nil

	case kindPair:
		return []Record{in.pair}, nil

	case kindSequences:
		width := len(fmt.Sprint(len(in.list)))
		recs := make([]Record, 0, len(in.list))
		for i, s := range in.list {
			recs = append(recs, Record{
				Name:     fmt.Sprintf("sequence-%0*d", width, i+1),
				Sequence: s,
			})
		}
		return recs, nil

	case kindRecords:
		return append([]Record(nil), in.recs...), nil

	default:
		return nil, ErrInvalidInput
	}
}
