// internal/writers/api.go
package writers

import (
	"abnum/core/numbering"
	"abnum/pkg/api"
)

// ToAPIRecord converts a domain result to the stable wire schema (v1).
// Query span fields are null for failed sequences.
func ToAPIRecord(name string, r numbering.Result) api.RecordV1 {
	rec := api.RecordV1{
		Numbering: make([]api.NumberedResidueV1, 0, len(r.Numbering)),
		Metadata: api.MetadataV1{
			QueryName: name,
			ChainType: r.ChainType,
			Score:     r.Score,
			Scheme:    r.Scheme,
			Error:     r.Error,
		},
	}
	if !r.Failed() {
		start, end := r.QueryStart, r.QueryEnd
		rec.Metadata.QueryStart = &start
		rec.Metadata.QueryEnd = &end
	}
	for _, res := range r.Numbering {
		ins := ""
		if res.Key.Insertion != 0 {
			ins = string(res.Key.Insertion)
		}
		rec.Numbering = append(rec.Numbering, api.NumberedResidueV1{
			Position:  res.Key.Position,
			Insertion: ins,
			Residue:   string(res.Residue),
		})
	}
	return rec
}

// FromAPIRecord converts a wire record back into a domain result, as needed
// when re-reading a spill container for tabular alignment.
func FromAPIRecord(rec api.RecordV1) (string, numbering.Result) {
	r := numbering.Result{
		ChainType: rec.Metadata.ChainType,
		Score:     rec.Metadata.Score,
		Scheme:    rec.Metadata.Scheme,
		Error:     rec.Metadata.Error,
		Numbering: make([]numbering.Residue, 0, len(rec.Numbering)),
	}
	if rec.Metadata.QueryStart != nil {
		r.QueryStart = *rec.Metadata.QueryStart
	}
	if rec.Metadata.QueryEnd != nil {
		r.QueryEnd = *rec.Metadata.QueryEnd
	}
	for _, res := range rec.Numbering {
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
	return rec.Metadata.QueryName, r
}
