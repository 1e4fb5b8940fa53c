package pipeline

import (
	"context"
	"testing"

	"abnum/core/numbering"
	"abnum/core/structure"
)

func testHandle() *structure.Handle {
	return &structure.Handle{Models: []structure.Model{{
		Chains: []structure.Chain{
			{ID: "H", Residues: []structure.Residue{
				{Name: "GLU", SeqID: 100},
				{Name: "VAL", SeqID: 101},
				{Name: "GLN", SeqID: 102},
				{Name: "LEU", SeqID: 103},
			}},
			{ID: "W", Residues: nil}, // waters-only chain, skipped
		},
	}}}
}

func TestNumberStructure(t *testing.T) {
	h := testHandle()
	p := New(&fakeProvider{}, Options{})

	rs, err := p.NumberStructure(context.Background(), h)
	if err != nil {
		t.Fatalf("number structure: %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("expected one numbered chain, got %d", rs.Len())
	}
	if _, ok := rs.Get("model-0-chain-H"); !ok {
		t.Fatalf("chain naming wrong: %v", rs.Names())
	}

	// The numbering is projected back onto the residues.
	chain, _ := h.Chain(0, "H")
	for i, r := range chain.Residues {
		if r.SeqID != i+1 {
			t.Fatalf("residue %d not renumbered: %+v", i, r)
		}
	}
}

func TestNumberStructureFailedChainContinues(t *testing.T) {
	h := testHandle()
	prov := &fakeProvider{
		numberFn: func(_ string, batch []Tokenised) map[string]numbering.Result {
			out := make(map[string]numbering.Result, len(batch))
			for _, tk := range batch {
				out[tk.Name] = numbering.Result{ChainType: numbering.FailedChain, Error: "no alignment"}
			}
			return out
		},
	}
	p := New(prov, Options{})

	rs, err := p.NumberStructure(context.Background(), h)
	if err != nil {
		t.Fatalf("a failed chain must not fail the run: %v", err)
	}
	r, _ := rs.Get("model-0-chain-H")
	if !r.Failed() {
		t.Fatalf("expected failed result: %+v", r)
	}

	// The chain keeps its original numbering.
	chain, _ := h.Chain(0, "H")
	if chain.Residues[0].SeqID != 100 {
		t.Fatalf("failed chain was mutated: %+v", chain.Residues[0])
	}
}

func TestNumberStructureEmpty(t *testing.T) {
	p := New(&fakeProvider{}, Options{})
	if _, err := p.NumberStructure(context.Background(), &structure.Handle{}); err == nil {
		t.Fatal("expected error for a structure without residues")
	}
}
