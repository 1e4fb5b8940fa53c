// internal/infer/provider.go
package infer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"abnum/core/input"
	"abnum/core/numbering"
	"abnum/core/pipeline"
)

// Options configures the subprocess provider.
type Options struct {
	NumbererCmd   Command
	WindowCmd     Command
	ClassifierCmd Command
	ContextWindow int // model context size in tokens
	BatchSize     int // device batch hint forwarded to the model
	Log           *zerolog.Logger
}

// Provider implements pipeline.Provider over subprocess collaborators.
type Provider struct {
	opts Options
	log  zerolog.Logger
}

// NewProvider builds a Provider.
func NewProvider(opts Options) *Provider {
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}
	return &Provider{opts: opts, log: log}
}

// Numberer returns the numbering-model client for a sequence type and mode.
func (p *Provider) Numberer(seqType, mode string) (pipeline.Numberer, error) {
	if p.opts.NumbererCmd.Path == "" {
		return nil, fmt.Errorf("infer: no numbering model command configured")
	}
	return &numberer{p: p, seqType: seqType, mode: mode}, nil
}

// WindowSelector returns the window-selection client.
func (p *Provider) WindowSelector(seqType, mode string) (pipeline.WindowSelector, error) {
	if p.opts.WindowCmd.Path == "" {
		return nil, fmt.Errorf("infer: no window model command configured")
	}
	return &windowSelector{p: p, seqType: seqType, mode: mode}, nil
}

// Classifier returns the antibody/TCR classifier client.
func (p *Provider) Classifier() (pipeline.Classifier, error) {
	if p.opts.ClassifierCmd.Path == "" {
		return nil, fmt.Errorf("infer: no classifier command configured")
	}
	return &classifier{p: p}, nil
}

type numberer struct {
	p       *Provider
	seqType string
	mode    string
}

func (n *numberer) ContextWindow() int { return n.p.opts.ContextWindow }

func (n *numberer) Number(ctx context.Context, batch []pipeline.Tokenised) (map[string]numbering.Result, error) {
	req := numberRequest{
		Op:        "number",
		SeqType:   n.seqType,
		Mode:      n.mode,
		BatchSize: n.p.opts.BatchSize,
		Batch:     toEntryPayloads(batch),
	}
	var resp numberResponse
	if err := call(ctx, n.p.log, n.p.opts.NumbererCmd, req, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]numbering.Result, len(resp.Results))
	for name, payload := range resp.Results {
		out[name] = fromResultPayload(payload)
	}
	return out, nil
}

type windowSelector struct {
	p       *Provider
	seqType string
	mode    string
}

func (w *windowSelector) Select(ctx context.Context, batch []pipeline.Tokenised, fallback bool) ([]int, error) {
	req := windowRequest{
		Op:       "window",
		SeqType:  w.seqType,
		Mode:     w.mode,
		Fallback: fallback,
		Batch:    toEntryPayloads(batch),
	}
	var resp windowResponse
	if err := call(ctx, w.p.log, w.p.opts.WindowCmd, req, &resp); err != nil {
		return nil, err
	}
	return resp.Starts, nil
}

type classifier struct {
	p *Provider
}

func (c *classifier) Classify(ctx context.Context, records []input.Record) (map[string][]input.Record, error) {
	req := classifyRequest{Op: "classify", Records: toRecordPayloads(records)}
	var resp classifyResponse
	if err := call(ctx, c.p.log, c.p.opts.ClassifierCmd, req, &resp); err != nil {
		return nil, err
	}
	out := make(map[string][]input.Record, len(resp.Groups))
	for t, recs := range resp.Groups {
		group := make([]input.Record, len(recs))
		for i, r := range recs {
			group[i] = input.Record{Name: r.Name, Sequence: r.Sequence}
		}
		out[t] = group
	}
	return out, nil
}
