package writers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"abnum/core/numbering"
	"abnum/pkg/api"
)

func sampleSet() *numbering.ResultSet {
	rs := numbering.NewResultSet(2)
	rs.Add("h1", numbering.Result{
		Scheme:     numbering.SchemeIMGT,
		ChainType:  "H",
		Score:      0.97,
		QueryStart: 0,
		QueryEnd:   3,
		Numbering: []numbering.Residue{
			{Key: numbering.Key{Position: 1}, Residue: 'E'},
			{Key: numbering.Key{Position: 2}, Residue: 'V'},
			{Key: numbering.Key{Position: 112, Insertion: 'A'}, Residue: 'Q'},
			{Key: numbering.Key{Position: 112}, Residue: 'L'},
		},
	})
	rs.Add("bad", numbering.Failure(numbering.SchemeIMGT, errors.New("invalid residue")))
	return rs
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSet()); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := parseCSV(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	header := rows[0]

	for i, want := range metadataColumns {
		if header[i] != want {
			t.Fatalf("metadata header %d = %q, want %q", i, header[i], want)
		}
	}

	// Positions 1-128 always present, observed or not; 112A observed.
	if len(header) != len(metadataColumns)+128+1 {
		t.Fatalf("header has %d columns", len(header))
	}
	for _, name := range []string{"1", "64", "128"} {
		if column(header, name) < 0 {
			t.Fatalf("required position %s missing from header", name)
		}
	}

	// IMGT inward order at the 112 boundary: the insertion sits before 112.
	a, b := column(header, "112A"), column(header, "112")
	if a < 0 || b != a+1 {
		t.Fatalf("112A at %d, 112 at %d; want adjacent inward order", a, b)
	}

	h1 := rows[1]
	if h1[0] != "h1" || h1[1] != "H" {
		t.Fatalf("row order or metadata wrong: %v", h1[:5])
	}
	if got := h1[column(header, "1")]; got != "E" {
		t.Fatalf("position 1 = %q", got)
	}
	if got := h1[column(header, "3")]; got != "-" {
		t.Fatalf("unoccupied position 3 = %q, want -", got)
	}
	if got := h1[column(header, "112A")]; got != "Q" {
		t.Fatalf("position 112A = %q", got)
	}

	bad := rows[2]
	if bad[0] != "bad" || bad[1] != numbering.FailedChain {
		t.Fatalf("failed row metadata wrong: %v", bad[:5])
	}
	if bad[3] != "" || bad[4] != "" {
		t.Fatalf("failed row should have blank query span: %q %q", bad[3], bad[4])
	}
	for i := len(metadataColumns); i < len(bad); i++ {
		if bad[i] != "-" {
			t.Fatalf("failed row residue column %s = %q", header[i], bad[i])
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSet()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var records []api.RecordV1
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Metadata.QueryName != "h1" || records[1].Metadata.QueryName != "bad" {
		t.Fatalf("order wrong: %q, %q", records[0].Metadata.QueryName, records[1].Metadata.QueryName)
	}
	if records[0].Metadata.QueryStart == nil || *records[0].Metadata.QueryEnd != 3 {
		t.Fatalf("query span wrong: %+v", records[0].Metadata)
	}
	if records[1].Metadata.QueryStart != nil {
		t.Fatal("failed record should have null query start")
	}
	if records[0].Numbering[2].Insertion != "A" {
		t.Fatalf("insertion lost: %+v", records[0].Numbering[2])
	}
}

func TestJSONStream(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewJSONStream(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	one := numbering.NewResultSet(1)
	one.Add("a", numbering.Result{ChainType: "H", Scheme: numbering.SchemeIMGT})
	two := numbering.NewResultSet(1)
	two.Add("b", numbering.Result{ChainType: "L", Scheme: numbering.SchemeIMGT})
	if err := s.Append(one); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(two); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var records []api.RecordV1
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("streamed output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(records) != 2 || records[0].Metadata.QueryName != "a" || records[1].Metadata.QueryName != "b" {
		t.Fatalf("records wrong: %+v", records)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleSet()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# h1\n") {
		t.Fatalf("missing name header:\n%s", out)
	}
	if strings.Count(out, "//\n") != 2 {
		t.Fatalf("each block needs a terminator:\n%s", out)
	}
	if !strings.Contains(out, "112A Q\n") {
		t.Fatalf("missing aligned residue line:\n%s", out)
	}
	if !strings.Contains(out, "# Error: invalid residue\n") {
		t.Fatalf("failed block should carry the error:\n%s", out)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMsgpack(&buf, sampleSet()); err != nil {
		t.Fatalf("write: %v", err)
	}

	var names []string
	err := ScanMsgpack(&buf, func(name string, rec api.RecordV1) error {
		names = append(names, name)
		if name == "h1" {
			_, r := FromAPIRecord(rec)
			if len(r.Numbering) != 4 || r.Numbering[2].Key.Insertion != 'A' {
				t.Fatalf("round trip lost numbering: %+v", r.Numbering)
			}
			if r.QueryEnd != 3 {
				t.Fatalf("round trip lost query span: %+v", r)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(names) != 2 || names[0] != "h1" || names[1] != "bad" {
		t.Fatalf("container order wrong: %v", names)
	}
}

func TestMsgpackContainerCounts(t *testing.T) {
	var buf bytes.Buffer
	c, err := NewMsgpackContainer(&buf, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Append(sampleSet()); err == nil {
		t.Fatal("expected error appending past the declared count")
	}

	buf.Reset()
	c, err = NewMsgpackContainer(&buf, 3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Append(sampleSet()); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := c.Close(); err == nil {
		t.Fatal("expected error for an underfilled container")
	}
}

func TestSpillIterateTwoPass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spill.msgpack")
	sink, err := MsgpackSinkFactory(path)(2)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	if err := sink.Append(sampleSet()); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("spill file missing: %v", err)
	}

	// The CSV writer iterates the source twice; both passes must see the
	// full container.
	var buf bytes.Buffer
	if err := WriteCSVStream(&buf, SpillIterate(path)); err != nil {
		t.Fatalf("csv from spill: %v", err)
	}
	rows := parseCSV(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "h1" || rows[2][0] != "bad" {
		t.Fatalf("spill order lost: %v, %v", rows[1][0], rows[2][0])
	}
	if a, b := column(rows[0], "112A"), column(rows[0], "112"); a < 0 || b != a+1 {
		t.Fatalf("scheme not recovered from spill: 112A at %d, 112 at %d", a, b)
	}
}

func TestRegistry(t *testing.T) {
	for _, format := range []string{"csv", "json", "msgpack", "text"} {
		if _, ok := Formats[format]; !ok {
			t.Fatalf("format %q not registered", format)
		}
	}
	var buf bytes.Buffer
	if err := Write("yaml", &buf, sampleSet()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
