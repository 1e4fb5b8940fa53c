// core/pipeline/collab.go
package pipeline

import (
	"context"

	"abnum/core/input"
	"abnum/core/numbering"
)

// Sequence types accepted by the pipeline.
const (
	SeqTypeAntibody = "antibody"
	SeqTypeTCR      = "tcr"
	SeqTypeUnknown  = "unknown"
)

// Model modes.
const (
	ModeAccuracy = "accuracy"
	ModeSpeed    = "speed"
)

// Tokenised is one model-ready sequence: its name, token ids, and the
// positional offset of the tokens within the original sequence (non-zero
// after window selection).
type Tokenised struct {
	Name   string
	Tokens []int
	Offset int
}

// Numberer is the numbering-model collaborator. Number is batch-synchronous
// and returns one result per input entry, keyed by name; result order is not
// guaranteed to match input order, so callers re-key. ContextWindow is the
// model's fixed context size in tokens (0 = unbounded).
type Numberer interface {
	ContextWindow() int
	Number(ctx context.Context, batch []Tokenised) (map[string]numbering.Result, error)
}

// WindowSelector is the window-selection collaborator: for each entry it
// returns the best-scoring window start index. In fallback mode
// implementations return one shared index for the whole batch, repeated per
// entry.
type WindowSelector interface {
	Select(ctx context.Context, batch []Tokenised, fallback bool) ([]int, error)
}

// Classifier is the antibody/TCR classifier collaborator. Classify is a
// partition, not a filter: every input name appears in exactly one group,
// and entries within a group keep their relative input order.
type Classifier interface {
	Classify(ctx context.Context, records []input.Record) (map[string][]input.Record, error)
}

// Provider hands out collaborator instances for a sequence type and mode.
// The pipeline requests them lazily, once per run.
type Provider interface {
	Numberer(seqType, mode string) (Numberer, error)
	WindowSelector(seqType, mode string) (WindowSelector, error)
	Classifier() (Classifier, error)
}

// ChunkSink receives completed chunks of a streaming run. The factory that
// builds one writes a self-describing header stating the final entry count
// before any chunk is appended.
type ChunkSink interface {
	Append(rs *numbering.ResultSet) error
	Close() error
}

// SinkFactory builds the persistent streaming target for a run of the given
// total size. It is invoked once, before the first chunk is processed.
type SinkFactory func(total int) (ChunkSink, error)
