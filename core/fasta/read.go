// core/fasta/read.go
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Record is one named sequence read from a FASTA or PIR file.
type Record struct {
	Name string
	Seq  string
}

// ErrUnsupportedFormat is wrapped into the error returned for files whose
// extension is not a recognised FASTA or PIR suffix.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var (
	gzSuffixes    = map[string]bool{".gz": true, ".z": true}
	fastaSuffixes = map[string]bool{".fasta": true, ".fas": true, ".fsa": true, ".fa": true, ".faa": true, ".mpfa": true}
	pirSuffixes   = map[string]bool{".pir": true, ".nbrf": true, ".ali": true}
)

func supportedList() string {
	all := make([]string, 0, len(fastaSuffixes)+len(pirSuffixes))
	for s := range fastaSuffixes {
		all = append(all, s)
	}
	for s := range pirSuffixes {
		all = append(all, s)
	}
	sort.Strings(all)
	return strings.Join(all, ", ")
}

// ReadFile reads every named sequence from a FASTA or NBRF/PIR file,
// transparently decompressing gzipped files (*.gz, *.z). Record order
// follows file order; entries with an empty name or sequence are dropped.
func ReadFile(path string) ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	inner := path
	if gzSuffixes[ext] {
		inner = strings.TrimSuffix(path, filepath.Ext(path))
		ext = strings.ToLower(filepath.Ext(inner))
	}

	var pir bool
	switch {
	case fastaSuffixes[ext]:
	case pirSuffixes[ext]:
		pir = true
	default:
		return nil, fmt.Errorf("%s: %w (supported: %s and gzipped equivalents)",
			filepath.Base(path), ErrUnsupportedFormat, supportedList())
	}

	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	if pir {
		return parsePIR(rc)
	}
	return parseFASTA(rc)
}

// parseFASTA reads plain FASTA: '>' header lines, sequence lines until the
// next header. The full header (minus '>') is the record name.
func parseFASTA(r io.Reader) ([]Record, error) {
	var (
		recs []Record
		name string
		seq  strings.Builder
	)
	flush := func() {
		if name != "" && seq.Len() > 0 {
			recs = append(recs, Record{Name: name, Seq: seq.String()})
		}
		seq.Reset()
	}

	sc := newScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			name = strings.TrimSpace(line[1:])
			continue
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta scan: %w", err)
	}
	flush()
	return recs, nil
}

// parsePIR reads NBRF/PIR: a '>XX;name' header, one description line, then
// sequence lines terminated by '*'.
func parsePIR(r io.Reader) ([]Record, error) {
	var (
		recs     []Record
		name     string
		seq      strings.Builder
		skipDesc bool
	)
	flush := func() {
		s := strings.TrimSuffix(seq.String(), "*")
		if name != "" && s != "" {
			recs = append(recs, Record{Name: name, Seq: s})
		}
		seq.Reset()
	}

	sc := newScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			name = strings.TrimSpace(line[1:])
			if i := strings.IndexByte(name, ';'); i >= 0 {
				name = strings.TrimSpace(name[i+1:])
			}
			skipDesc = true
			continue
		}
		if skipDesc {
			skipDesc = false
			continue
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pir scan: %w", err)
	}
	flush()
	return recs, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	// Allow very long single-line sequences.
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return sc
}
