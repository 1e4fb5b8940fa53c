// core/structure/renumber.go
package structure

import (
	"fmt"
	"strings"

	"abnum/core/numbering"
)

// MismatchError reports a chain with fewer physical residues than numbering
// keys to assign. The chain is left untouched.
type MismatchError struct {
	ModelIndex int
	ChainID    string
	Residues   int
	Keys       int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("structure: chain %q (model %d) has %d residues but %d numbering keys to assign",
		e.ChainID, e.ModelIndex, e.Residues, e.Keys)
}

// Apply projects a numbering result onto the identified chain, mutating its
// residue numbering fields in place:
//
//  1. Gap entries are dropped; gaps exist only in the numbering abstraction.
//  2. The numbered subsequence is located as a contiguous substring of the
//     chain's one-letter sequence; its index is the base offset. If no exact
//     match exists the model-reported query start is used instead.
//  3. Chain residues before the first numbered residue get synthetic
//     sequential numbers (no insertion letters) counting backward from the
//     first assigned position.
//  4. The combined numbering is assigned positionally, one key per physical
//     residue. Residues after the numbered span continue sequentially from
//     the last assigned position.
//
// Applying the same result twice yields identical numbering.
func Apply(h *Handle, modelIndex int, chainID string, result numbering.Result) error {
	chain, err := h.Chain(modelIndex, chainID)
	if err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("structure: chain %q (model %d): numbering failed: %s",
			chainID, modelIndex, result.Error)
	}

	numbered := make([]numbering.Residue, 0, len(result.Numbering))
	for _, r := range result.Numbering {
		if r.Residue == numbering.Gap {
			continue
		}
		numbered = append(numbered, r)
	}
	if len(numbered) == 0 {
		return fmt.Errorf("structure: chain %q (model %d): empty numbering", chainID, modelIndex)
	}

	var sub strings.Builder
	sub.Grow(len(numbered))
	for _, r := range numbered {
		sub.WriteByte(r.Residue)
	}

	offset := strings.Index(chain.OneLetter(), sub.String())
	if offset < 0 {
		// The model and the chain disagree on flanking residues; trust the
		// model's reported query start.
		offset = result.QueryStart
	}

	keys := make([]numbering.Key, 0, offset+len(numbered))
	first := numbered[0].Key.Position
	for i := 0; i < offset; i++ {
		keys = append(keys, numbering.Key{Position: first - offset + i})
	}
	for _, r := range numbered {
		keys = append(keys, r.Key)
	}

	if len(chain.Residues) < len(keys) {
		return &MismatchError{
			ModelIndex: modelIndex,
			ChainID:    chainID,
			Residues:   len(chain.Residues),
			Keys:       len(keys),
		}
	}

	for i := range chain.Residues {
		if i < len(keys) {
			chain.Residues[i].SeqID = keys[i].Position
			chain.Residues[i].ICode = keys[i].Insertion
			continue
		}
		// Past the numbered span: continue from the last assigned position.
		chain.Residues[i].SeqID = keys[len(keys)-1].Position + (i - len(keys) + 1)
		chain.Residues[i].ICode = 0
	}
	return nil
}
