// internal/infer/protocol.go
package infer

import (
	"abnum/core/input"
	"abnum/core/numbering"
	"abnum/core/pipeline"
)

// Wire types for the collaborator protocol: one JSON request object on the
// child's stdin, one JSON response object on its stdout.

type entryPayload struct {
	Name   string `json:"name"`
	Tokens []int  `json:"tokens,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

type recordPayload struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
}

type residuePayload struct {
	Position  int    `json:"position"`
	Insertion string `json:"insertion"`
	Residue   string `json:"residue"`
}

type resultPayload struct {
	Numbering  []residuePayload `json:"numbering"`
	ChainType  string           `json:"chain_type"`
	Score      float64          `json:"score"`
	QueryStart int              `json:"query_start"`
	QueryEnd   int              `json:"query_end"`
	Scheme     string           `json:"scheme"`
	Error      string           `json:"error"`
}

type numberRequest struct {
	Op        string         `json:"op"` // "number"
	SeqType   string         `json:"seq_type"`
	Mode      string         `json:"mode"`
	BatchSize int            `json:"batch_size,omitempty"`
	Batch     []entryPayload `json:"batch"`
}

type numberResponse struct {
	Results map[string]resultPayload `json:"results"`
}

type windowRequest struct {
	Op       string         `json:"op"` // "window"
	SeqType  string         `json:"seq_type"`
	Mode     string         `json:"mode"`
	Fallback bool           `json:"fallback"`
	Batch    []entryPayload `json:"batch"`
}

type windowResponse struct {
	Starts []int `json:"starts"`
}

type classifyRequest struct {
	Op      string          `json:"op"` // "classify"
	Records []recordPayload `json:"records"`
}

type classifyResponse struct {
	// Group arrays preserve the relative input order of their members.
	Groups map[string][]recordPayload `json:"groups"`
}

func toEntryPayloads(batch []pipeline.Tokenised) []entryPayload {
	out := make([]entryPayload, len(batch))
	for i, t := range batch {
		out[i] = entryPayload{Name: t.Name, Tokens: t.Tokens, Offset: t.Offset}
	}
	return out
}

func toRecordPayloads(records []input.Record) []recordPayload {
	out := make([]recordPayload, len(records))
	for i, r := range records {
		out[i] = recordPayload{Name: r.Name, Sequence: r.Sequence}
	}
	return out
}

func fromResultPayload(p resultPayload) numbering.Result {
	r := numbering.Result{
		ChainType:  p.ChainType,
		Score:      p.Score,
		QueryStart: p.QueryStart,
		QueryEnd:   p.QueryEnd,
		Scheme:     p.Scheme,
		Error:      p.Error,
		Numbering:  make([]numbering.Residue, 0, len(p.Numbering)),
	}
	for _, res := range p.Numbering {
		key := numbering.Key{Position: res.Position}
		if res.Insertion != "" {
			key.Insertion = res.Insertion[0]
		}
		residue := byte(numbering.Gap)
		if res.Residue != "" {
			residue = res.Residue[0]
		}
		r.Numbering = append(r.Numbering, numbering.Residue{Key: key, Residue: residue})
	}
	return r
}
