// pkg/api/records_v1.go
package api

// NumberedResidueV1 is one numbered residue on the wire: scheme position,
// insertion letter ("" = none), and one-letter residue code.
type NumberedResidueV1 struct {
	Position  int    `json:"position" msgpack:"position"`
	Insertion string `json:"insertion" msgpack:"insertion"`
	Residue   string `json:"residue" msgpack:"residue"`
}

// MetadataV1 is the per-sequence metadata half of a record.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type MetadataV1 struct {
	QueryName  string  `json:"query_name" msgpack:"query_name"`
	ChainType  string  `json:"chain_type" msgpack:"chain_type"`
	Score      float64 `json:"score" msgpack:"score"`
	QueryStart *int    `json:"query_start" msgpack:"query_start"`
	QueryEnd   *int    `json:"query_end" msgpack:"query_end"`
	Scheme     string  `json:"scheme" msgpack:"scheme"`
	Error      string  `json:"error,omitempty" msgpack:"error,omitempty"`
}

// RecordV1 is the stable per-sequence schema shared by the JSON array output
// and the streamed msgpack container: a (numbering, metadata) pair.
type RecordV1 struct {
	Numbering []NumberedResidueV1 `json:"numbering" msgpack:"numbering"`
	Metadata  MetadataV1          `json:"metadata" msgpack:"metadata"`
}
