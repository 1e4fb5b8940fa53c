// core/structure/structure.go
package structure

import (
	"fmt"
	"strings"
)

// Residue is one physical residue within a structural chain. SeqID and ICode
// are the mutable numbering fields the renumberer assigns.
type Residue struct {
	Name  string // three-letter residue code
	SeqID int
	ICode byte // 0 = no insertion code
}

// Chain is one polypeptide strand of a structural model.
type Chain struct {
	ID       string
	Residues []Residue
}

// Model is one model of a structural record (crystal structures have one,
// NMR ensembles several).
type Model struct {
	Chains []Chain
}

// Handle is a caller-supplied structural record. This package never
// constructs one; it only mutates residue numbering fields in place.
type Handle struct {
	Models []Model
}

// Chain returns a pointer to the identified chain.
func (h *Handle) Chain(modelIndex int, chainID string) (*Chain, error) {
	if modelIndex < 0 || modelIndex >= len(h.Models) {
		return nil, fmt.Errorf("structure: no model %d", modelIndex)
	}
	m := &h.Models[modelIndex]
	for i := range m.Chains {
		if m.Chains[i].ID == chainID {
			return &m.Chains[i], nil
		}
	}
	return nil, fmt.Errorf("structure: no chain %q in model %d", chainID, modelIndex)
}

// OneLetter renders the chain as a one-letter sequence, with 'X' for residue
// names outside the standard twenty.
func (c *Chain) OneLetter() string {
	var b strings.Builder
	b.Grow(len(c.Residues))
	for _, r := range c.Residues {
		b.WriteByte(OneLetterCode(r.Name))
	}
	return b.String()
}
