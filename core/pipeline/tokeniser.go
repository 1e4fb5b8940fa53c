// core/pipeline/tokeniser.go
package pipeline

import (
	"fmt"
	"strings"
)

// Tokeniser encodes a peptide sequence into model token ids. A residue
// outside the vocabulary fails that single sequence; the pipeline records
// the failure and keeps going.
type Tokeniser interface {
	Encode(seq string) ([]int, error)
}

// Reserved token ids shared by the released models.
const (
	tokenPad   = 0
	tokenStart = 1
	tokenEnd   = 2
)

// vocabulary is the twenty standard amino acids; token ids follow the
// reserved range in this order.
const vocabulary = "ACDEFGHIKLMNPQRSTVWY"

type aminoTokeniser struct {
	ids map[byte]int
}

// NewTokeniser returns the standard amino-acid tokeniser. Input is
// upper-cased before lookup.
func NewTokeniser() Tokeniser {
	t := &aminoTokeniser{ids: make(map[byte]int, len(vocabulary))}
	for i := 0; i < len(vocabulary); i++ {
		t.ids[vocabulary[i]] = tokenEnd + 1 + i
	}
	return t
}

func (t *aminoTokeniser) Encode(seq string) ([]int, error) {
	up := strings.ToUpper(seq)
	out := make([]int, 0, len(up)+2)
	out = append(out, tokenStart)
	for i := 0; i < len(up); i++ {
		id, ok := t.ids[up[i]]
		if !ok {
			return nil, fmt.Errorf("invalid residue %q at position %d", string(up[i]), i+1)
		}
		out = append(out, id)
	}
	return append(out, tokenEnd), nil
}
