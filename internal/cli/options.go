// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"abnum/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Positional input: a bare peptide sequence or a path to a FASTA/PIR
	// file.
	Input string

	// Numbering
	SeqType        string
	Mode           string
	ToScheme       string // convert output to this scheme before writing
	FallbackWindow bool

	// Batching; 0 means the configured default applies.
	BatchSize int
	MaxBatch  int

	// Output
	Output string // path; format inferred from extension, empty = stdout text

	Config  string
	Verbose bool
	Version bool
}

// OutputFormats maps recognised output file extensions to writer formats.
var OutputFormats = map[string]string{
	".csv":     "csv",
	".txt":     "text",
	".json":    "json",
	".msgpack": "msgpack",
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: antibody and TCR sequence numbering

Version: %s

Usage: %s [flags] <sequence | file.fasta[.gz] | file.pir[.gz]>
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returning an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.SeqType, "type", "antibody", "sequence type: antibody | tcr | unknown [antibody]")
	fs.StringVar(&opt.SeqType, "t", "antibody", "shorthand for --type")
	fs.StringVar(&opt.Mode, "mode", "accuracy", "model mode: accuracy | speed [accuracy]")
	fs.StringVar(&opt.Mode, "m", "accuracy", "shorthand for --mode")
	fs.StringVar(&opt.ToScheme, "to-scheme", "", "convert output to an alternate numbering scheme")
	fs.BoolVar(&opt.FallbackWindow, "fallback-window", false, "use the shared fallback window for overlong sequences [false]")

	fs.IntVar(&opt.BatchSize, "batch-size", 0, "model device batch size (0 = configured default, 512)")
	fs.IntVar(&opt.BatchSize, "b", 0, "shorthand for --batch-size")
	fs.IntVar(&opt.MaxBatch, "max-batch", 0, "sequences per chunk; larger runs stream to disk (0 = configured default, 102400)")

	fs.StringVar(&opt.Output, "output", "", "output file (.csv | .txt | .json | .msgpack), empty = stdout")
	fs.StringVar(&opt.Output, "o", "", "shorthand for --output")

	fs.StringVar(&opt.Config, "config", "", "YAML configuration file")
	fs.BoolVar(&opt.Verbose, "verbose", false, "enable debug logging [false]")
	fs.BoolVar(&opt.Verbose, "v", false, "shorthand for --verbose")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := splitArgs(fs, argv)
	flagArgs = append(flagArgs, "--")
	if err := fs.Parse(append(flagArgs, posArgs...)); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	switch fs.NArg() {
	case 0:
		return opt, errors.New("an input sequence or file is required")
	case 1:
		opt.Input = fs.Arg(0)
	default:
		return opt, fmt.Errorf("expected one input argument, got %d", fs.NArg())
	}

	switch opt.SeqType {
	case "antibody", "tcr", "unknown":
	default:
		return opt, fmt.Errorf("invalid --type %q", opt.SeqType)
	}
	switch opt.Mode {
	case "accuracy", "speed":
	default:
		return opt, fmt.Errorf("invalid --mode %q", opt.Mode)
	}
	if opt.BatchSize < 0 {
		return opt, errors.New("--batch-size must be > 0")
	}
	if opt.MaxBatch < 0 {
		return opt, errors.New("--max-batch must be > 0")
	}
	if opt.Output != "" {
		ext := strings.ToLower(filepath.Ext(opt.Output))
		if _, ok := OutputFormats[ext]; !ok {
			return opt, fmt.Errorf("output file must end in .csv, .txt, .json or .msgpack (got %q)", ext)
		}
	}
	return opt, nil
}

// InputLooksLikePath reports whether the positional input should be treated
// as a file path rather than a bare sequence.
func InputLooksLikePath(in string) bool {
	return filepath.Ext(in) != ""
}
