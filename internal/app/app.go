// internal/app/app.go
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"abnum/core/input"
	"abnum/core/numbering"
	"abnum/core/pipeline"
	"abnum/internal/cli"
	"abnum/internal/config"
	"abnum/internal/infer"
	"abnum/internal/logger"
	"abnum/internal/version"
	"abnum/internal/writers"
)

// RunContext drives one CLI invocation and returns its exit code:
// 0 success, 2 usage error, 3 runtime failure, 130 canceled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("abnum")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(stdout)
		fs.Usage()
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return 2
	}
	if opts.Version {
		fmt.Fprintf(stdout, "abnum version %s\n", version.Version)
		return 0
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	// Explicit flags win over the configured batching defaults.
	if opts.BatchSize > 0 {
		cfg.Models.BatchSize = opts.BatchSize
	}
	if opts.MaxBatch > 0 {
		cfg.MaxBatch = opts.MaxBatch
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: stderr})
	log := logger.Named("app").With().Str("run_id", uuid.NewString()).Logger()

	provider, err := buildProvider(cfg, &log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	spill := spillPath(opts.Output)
	p := pipeline.New(provider, pipeline.Options{
		SeqType:        opts.SeqType,
		Mode:           opts.Mode,
		MaxBatch:       cfg.MaxBatch,
		FallbackWindow: opts.FallbackWindow,
		Sink:           writers.MsgpackSinkFactory(spill),
		Log:            &log,
	})

	in := input.Sequence(opts.Input)
	if cli.InputLooksLikePath(opts.Input) {
		log.Info().Str("file", opts.Input).Msg("processing file")
		in = input.Path(opts.Input)
	} else {
		log.Info().Msg("processing sequence")
	}

	rs, err := p.Number(parent, in)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, err)
		return 3
	}

	if opts.ToScheme != "" {
		if rs, err = p.Convert(opts.ToScheme); err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
		log.Info().Str("scheme", opts.ToScheme).Msg("output converted")
	}

	if p.Spilled() {
		err = writeSpilled(opts.Output, spill, stdout)
	} else {
		err = writeBuffered(opts.Output, rs, stdout)
	}
	if writers.IsBrokenPipe(err) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}
	if opts.Output != "" {
		log.Info().Str("path", opts.Output).Msg("output saved")
	}
	return 0
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func buildProvider(cfg config.Config, log *logger.Logger) (*infer.Provider, error) {
	numberer, err := infer.ParseCommand(cfg.Models.Numberer)
	if err != nil {
		return nil, err
	}
	window, err := infer.ParseCommand(cfg.Models.Window)
	if err != nil {
		return nil, err
	}
	classifier, err := infer.ParseCommand(cfg.Models.Classifier)
	if err != nil {
		return nil, err
	}
	return infer.NewProvider(infer.Options{
		NumbererCmd:   numberer,
		WindowCmd:     window,
		ClassifierCmd: classifier,
		ContextWindow: cfg.Models.ContextWindow,
		BatchSize:     cfg.Models.BatchSize,
		Log:           log,
	}), nil
}

// spillPath places the streaming container next to the requested output, or
// in the working directory when printing to stdout. When the requested
// output is itself the msgpack container, the spill is the output.
func spillPath(output string) string {
	if output == "" {
		return "abnum-results.msgpack"
	}
	if strings.ToLower(filepath.Ext(output)) == ".msgpack" {
		return output
	}
	return output + ".spill.msgpack"
}

func writeBuffered(output string, rs *numbering.ResultSet, stdout io.Writer) error {
	if output == "" {
		return writers.WriteText(stdout, rs)
	}
	format := cli.OutputFormats[strings.ToLower(filepath.Ext(output))]
	fh, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := writers.Write(format, fh, rs); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// writeSpilled converts the persisted spill container into the requested
// format without buffering the run in memory. The spill file is kept only
// when it is itself the requested output.
func writeSpilled(output, spill string, stdout io.Writer) error {
	format := "text"
	if output != "" {
		format = cli.OutputFormats[strings.ToLower(filepath.Ext(output))]
	}
	if format == "msgpack" {
		return nil // the spill is the output
	}
	defer func() { _ = os.Remove(spill) }()

	var w io.Writer = stdout
	if output != "" {
		fh, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() { _ = fh.Close() }()
		w = fh
	}

	switch format {
	case "csv":
		return writers.WriteCSVStream(w, writers.SpillIterate(spill))
	case "json":
		js, err := writers.NewJSONStream(w)
		if err != nil {
			return err
		}
		if err := writers.SpillIterate(spill)(js.Append); err != nil {
			return err
		}
		return js.Close()
	default:
		return writers.SpillIterate(spill)(func(rs *numbering.ResultSet) error {
			return writers.WriteText(w, rs)
		})
	}
}
