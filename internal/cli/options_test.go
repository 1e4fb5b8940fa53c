package cli

import (
	"bytes"
	"errors"
	"flag"
	"testing"
)

func parse(t *testing.T, argv ...string) (Options, error) {
	t.Helper()
	fs := NewFlagSet("abnum")
	fs.SetOutput(&bytes.Buffer{})
	return ParseArgs(fs, argv)
}

func TestParseDefaults(t *testing.T) {
	opt, err := parse(t, "EVQLVESGGG")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Input != "EVQLVESGGG" {
		t.Fatalf("input: %q", opt.Input)
	}
	if opt.SeqType != "antibody" || opt.Mode != "accuracy" {
		t.Fatalf("defaults wrong: %+v", opt)
	}
	if opt.BatchSize != 0 || opt.MaxBatch != 0 {
		t.Fatalf("batch flags should default to unset: %+v", opt)
	}
	if opt.Output != "" || opt.ToScheme != "" || opt.Verbose {
		t.Fatalf("zero defaults wrong: %+v", opt)
	}
}

func TestParseFlags(t *testing.T) {
	opt, err := parse(t,
		"-t", "tcr",
		"-m", "speed",
		"--to-scheme", "raw",
		"--fallback-window",
		"-b", "64",
		"--max-batch", "1000",
		"-o", "out.csv",
		"-v",
		"seqs.fasta",
	)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.SeqType != "tcr" || opt.Mode != "speed" || opt.ToScheme != "raw" {
		t.Fatalf("numbering flags wrong: %+v", opt)
	}
	if !opt.FallbackWindow || opt.BatchSize != 64 || opt.MaxBatch != 1000 {
		t.Fatalf("batch flags wrong: %+v", opt)
	}
	if opt.Output != "out.csv" || !opt.Verbose || opt.Input != "seqs.fasta" {
		t.Fatalf("io flags wrong: %+v", opt)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		argv []string
	}{
		{"no-input", nil},
		{"two-inputs", []string{"EVQL", "DIQM"}},
		{"bad-type", []string{"-t", "nanobody", "EVQL"}},
		{"bad-mode", []string{"-m", "turbo", "EVQL"}},
		{"bad-batch", []string{"-b", "-1", "EVQL"}},
		{"bad-max-batch", []string{"--max-batch", "-1", "EVQL"}},
		{"bad-output-ext", []string{"-o", "out.xml", "EVQL"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parse(t, tc.argv...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseHelpAndVersion(t *testing.T) {
	if _, err := parse(t, "-h"); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	opt, err := parse(t, "--version")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !opt.Version {
		t.Fatal("version flag not set")
	}
}

func TestParseTrailingFlags(t *testing.T) {
	opt, err := parse(t, "seqs.fasta", "-o", "out.csv", "--verbose", "--max-batch=5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Input != "seqs.fasta" || opt.Output != "out.csv" || !opt.Verbose || opt.MaxBatch != 5 {
		t.Fatalf("trailing flags lost: %+v", opt)
	}
}

func TestParseTerminator(t *testing.T) {
	opt, err := parse(t, "-v", "--", "-o")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !opt.Verbose || opt.Input != "-o" {
		t.Fatalf("-- not honoured: %+v", opt)
	}
}

func TestInputLooksLikePath(t *testing.T) {
	if InputLooksLikePath("EVQLVESGGG") {
		t.Fatal("bare sequence mistaken for a path")
	}
	for _, in := range []string{"seqs.fasta", "seqs.fa.gz", "dir/seqs.pir"} {
		if !InputLooksLikePath(in) {
			t.Fatalf("%q should look like a path", in)
		}
	}
}
