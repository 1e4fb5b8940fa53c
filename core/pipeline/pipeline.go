// core/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"abnum/core/input"
	"abnum/core/numbering"
)

// ErrNoOutput is returned when a conversion or export is requested before
// any numbering has run.
var ErrNoOutput = errors.New("pipeline: no numbered output available, run Number first")

// ErrUnsupportedCombination is returned when scheme conversion is requested
// for a run whose output was streamed chunk-by-chunk; conversion needs the
// buffered result set.
var ErrUnsupportedCombination = errors.New("pipeline: cannot convert scheme for a streamed run")

// Options configures a Pipeline. Zero fields take the documented defaults.
type Options struct {
	SeqType        string // antibody | tcr | unknown (default antibody)
	Mode           string // accuracy | speed (default accuracy)
	Scheme         string // numbering scheme stamp (default imgt)
	MaxBatch       int    // chunk capacity (default DefaultMaxBatch)
	FallbackWindow bool   // shared fallback window for overlong sequences
	Tokeniser      Tokeniser
	Sink           SinkFactory // required for runs larger than MaxBatch
	Log            *zerolog.Logger
}

// Pipeline drives normalization, chunking, optional classification fan-out,
// and the numbering model, preserving input order end to end. It retains the
// last buffered result set for scheme conversion and export; each Number
// call replaces it.
type Pipeline struct {
	opts     Options
	provider Provider
	log      zerolog.Logger

	last    *numbering.ResultSet
	spilled bool
}

// New builds a Pipeline around the given collaborator provider.
func New(provider Provider, opts Options) *Pipeline {
	if opts.SeqType == "" {
		opts.SeqType = SeqTypeAntibody
	}
	if opts.Mode == "" {
		opts.Mode = ModeAccuracy
	}
	if opts.Scheme == "" {
		opts.Scheme = numbering.SchemeIMGT
	}
	if opts.MaxBatch == 0 {
		opts.MaxBatch = DefaultMaxBatch
	}
	if opts.Tokeniser == nil {
		opts.Tokeniser = NewTokeniser()
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}
	return &Pipeline{opts: opts, provider: provider, log: log}
}

// Number normalizes any accepted input shape, splits paired sequences, and
// numbers everything. The returned set iterates in post-normalization input
// order. For runs above MaxBatch the results are streamed to the configured
// sink instead and the returned set is nil.
func (p *Pipeline) Number(ctx context.Context, in input.Input) (*numbering.ResultSet, error) {
	records, err := input.Coerce(in)
	if err != nil {
		return nil, err
	}
	return p.run(ctx, input.Split(records), nil)
}

// NumberRecords numbers an already-normalized record list without delimiter
// splitting. Used for structure-derived input, whose chains are already
// individual records.
func (p *Pipeline) NumberRecords(ctx context.Context, records []input.Record) (*numbering.ResultSet, error) {
	return p.run(ctx, records, nil)
}

// Last returns the buffered result set of the most recent run.
func (p *Pipeline) Last() (*numbering.ResultSet, error) {
	if p.last == nil {
		return nil, ErrNoOutput
	}
	return p.last, nil
}

// Spilled reports whether the most recent run streamed its output.
func (p *Pipeline) Spilled() bool { return p.spilled }

// Convert renumbers the last buffered output in the target scheme, producing
// a new result set; the original is untouched and remains exportable.
func (p *Pipeline) Convert(scheme string) (*numbering.ResultSet, error) {
	if p.spilled {
		return nil, ErrUnsupportedCombination
	}
	if p.last == nil {
		return nil, ErrNoOutput
	}
	return numbering.Convert(p.last, scheme)
}

// run processes chunks strictly sequentially: the model device is a single
// shared resource. perResult, when set, sees every result of a chunk before
// the chunk is handed to the sink or buffer.
func (p *Pipeline) run(ctx context.Context, records []input.Record, perResult func(name string, r numbering.Result) error) (*numbering.ResultSet, error) {
	p.last, p.spilled = nil, false

	total := len(records)
	chunks := Chunks(records, p.opts.MaxBatch)
	streaming := Streaming(total, p.opts.MaxBatch)
	p.log.Info().Int("sequences", total).Int("chunks", len(chunks)).Bool("streaming", streaming).Msg("numbering run")

	var sink ChunkSink
	if streaming {
		if p.opts.Sink == nil {
			return nil, errors.New("pipeline: run exceeds max batch but no chunk sink is configured")
		}
		var err error
		if sink, err = p.opts.Sink(total); err != nil {
			return nil, err
		}
	}

	var classifier Classifier
	if p.opts.SeqType == SeqTypeUnknown {
		var err error
		if classifier, err = p.provider.Classifier(); err != nil {
			return nil, err
		}
	}

	var buffered *numbering.ResultSet
	if !streaming {
		buffered = numbering.NewResultSet(total)
	}

	begin := time.Now()
	for i, chunk := range chunks {
		p.log.Debug().Int("chunk", i+1).Int("of", len(chunks)).Int("size", len(chunk)).Msg("processing chunk")

		var (
			rs  *numbering.ResultSet
			err error
		)
		if classifier != nil {
			rs, err = p.numberUnknown(ctx, chunk, classifier)
		} else {
			rs, err = p.numberChunk(ctx, chunk, p.opts.SeqType)
		}
		if err != nil {
			if sink != nil {
				_ = sink.Close()
			}
			return nil, err
		}

		if perResult != nil {
			if err := rs.Each(perResult); err != nil {
				if sink != nil {
					_ = sink.Close()
				}
				return nil, err
			}
		}

		if streaming {
			if err := sink.Append(rs); err != nil {
				_ = sink.Close()
				return nil, err
			}
		} else {
			buffered.Append(rs)
		}
	}
	p.log.Info().Int("sequences", total).Dur("elapsed", time.Since(begin)).Msg("numbering done")

	if streaming {
		p.spilled = true
		return nil, sink.Close()
	}
	p.last = buffered
	return buffered, nil
}

// numberUnknown routes one chunk through the classifier, numbers each group
// with its type-specific model, and restores the chunk's original key order.
// Classification is a routing step, never a reordering one.
func (p *Pipeline) numberUnknown(ctx context.Context, chunk []input.Record, classifier Classifier) (*numbering.ResultSet, error) {
	groups, err := classifier.Classify(ctx, chunk)
	if err != nil {
		return nil, err
	}

	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	merged := numbering.NewResultSet(len(chunk))
	for _, t := range types {
		p.log.Debug().Str("type", t).Int("sequences", len(groups[t])).Msg("classified group")
		rs, err := p.numberChunk(ctx, groups[t], t)
		if err != nil {
			return nil, err
		}
		merged.Append(rs)
	}
	return merged.Reordered(names(chunk))
}

// numberChunk tokenizes, window-selects, and numbers one chunk with the
// type-specific model, re-keyed to the chunk's original order. A sequence
// that fails tokenization becomes a failed result; it never aborts the
// chunk.
func (p *Pipeline) numberChunk(ctx context.Context, chunk []input.Record, seqType string) (*numbering.ResultSet, error) {
	model, err := p.provider.Numberer(seqType, p.opts.Mode)
	if err != nil {
		return nil, err
	}

	out := numbering.NewResultSet(len(chunk))
	batch := make([]Tokenised, 0, len(chunk))
	for _, rec := range chunk {
		tokens, err := p.opts.Tokeniser.Encode(rec.Sequence)
		if err != nil {
			p.log.Warn().Str("sequence", rec.Name).Err(err).Msg("tokenization failed")
			out.Add(rec.Name, numbering.Failure(p.opts.Scheme, err))
			continue
		}
		batch = append(batch, Tokenised{Name: rec.Name, Tokens: tokens})
	}

	if err := p.selectWindows(ctx, seqType, model.ContextWindow(), batch); err != nil {
		return nil, err
	}

	if len(batch) > 0 {
		results, err := model.Number(ctx, batch)
		if err != nil {
			return nil, err
		}
		for _, t := range batch {
			r, ok := results[t.Name]
			if !ok {
				out.Add(t.Name, numbering.Failure(p.opts.Scheme, fmt.Errorf("model returned no result for %q", t.Name)))
				continue
			}
			if r.Scheme == "" {
				r.Scheme = p.opts.Scheme
			}
			out.Add(t.Name, r)
		}
	}

	return out.Reordered(names(chunk))
}

// selectWindows trims sequences beyond the model context to their
// best-scoring window, recording each window start as the entry's positional
// offset. Sequences within the context bypass selection.
func (p *Pipeline) selectWindows(ctx context.Context, seqType string, window int, batch []Tokenised) error {
	if window <= 0 {
		return nil
	}
	var overlong []int
	for i := range batch {
		if len(batch[i].Tokens) > window {
			overlong = append(overlong, i)
		}
	}
	if len(overlong) == 0 {
		return nil
	}

	selector, err := p.provider.WindowSelector(seqType, p.opts.Mode)
	if err != nil {
		return err
	}
	sub := make([]Tokenised, len(overlong))
	for j, i := range overlong {
		sub[j] = batch[i]
	}
	starts, err := selector.Select(ctx, sub, p.opts.FallbackWindow)
	if err != nil {
		return err
	}
	if len(starts) != len(overlong) {
		return fmt.Errorf("pipeline: window selector returned %d starts for %d sequences", len(starts), len(overlong))
	}

	for j, i := range overlong {
		start := starts[j]
		if start < 0 {
			start = 0
		}
		if max := len(batch[i].Tokens) - window; start > max {
			start = max
		}
		p.log.Debug().Str("sequence", batch[i].Name).Int("start", start).Msg("window selected")
		batch[i].Tokens = batch[i].Tokens[start : start+window]
		batch[i].Offset = start
	}
	return nil
}

func names(records []input.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
