// core/pipeline/structure.go
package pipeline

import (
	"context"
	"fmt"

	"abnum/core/input"
	"abnum/core/numbering"
	"abnum/core/structure"
)

type chainRef struct {
	modelIndex int
	chainID    string
}

// NumberStructure numbers every chain of a caller-supplied structural record
// and projects the numbering back onto the chains' residues, chunk by chunk,
// before each chunk is discarded or streamed. Delimiter splitting does not
// apply: chains are already individual records. A chain whose physical
// residues cannot carry the numbering keys fails the run with a
// StructureMismatch error naming the chain.
func (p *Pipeline) NumberStructure(ctx context.Context, h *structure.Handle) (*numbering.ResultSet, error) {
	var records []input.Record
	refs := make(map[string]chainRef)

	for mi := range h.Models {
		for ci := range h.Models[mi].Chains {
			chain := &h.Models[mi].Chains[ci]
			if len(chain.Residues) == 0 {
				continue
			}
			seq := chain.OneLetter()
			if n := structure.RepeatedSubsequences(seq); n > 0 {
				p.log.Warn().Str("chain", chain.ID).Int("model", mi).Int("repeats", n).
					Msg("chain contains repeated domains, numbering covers one copy")
			}
			name := chainName(mi, chain.ID)
			refs[name] = chainRef{modelIndex: mi, chainID: chain.ID}
			records = append(records, input.Record{Name: name, Sequence: seq})
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("pipeline: structure has no chains with residues")
	}

	apply := func(name string, r numbering.Result) error {
		ref, ok := refs[name]
		if !ok {
			return fmt.Errorf("pipeline: result for unknown chain %q", name)
		}
		if r.Failed() {
			p.log.Warn().Str("chain", ref.chainID).Int("model", ref.modelIndex).Str("error", r.Error).
				Msg("chain not numbered")
			return nil
		}
		return structure.Apply(h, ref.modelIndex, ref.chainID, r)
	}
	return p.run(ctx, records, apply)
}

func chainName(modelIndex int, chainID string) string {
	return fmt.Sprintf("model-%d-chain-%s", modelIndex, chainID)
}
