package input

import (
	"errors"
	"reflect"
	"testing"
)

func TestCoerceShapes(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want []Record
	}{
		{"single-sequence-string", Sequence("EVQL"), []Record{{"sequence", "EVQL"}}},
		{"single-pair", Pair("ab1", "EVQL"), []Record{{"ab1", "EVQL"}}},
		{"list-single-sequence", Sequences("EVQL"), []Record{{"sequence-1", "EVQL"}}},
		{"list-multiple-sequences", Sequences("EVQL", "DIQM"), []Record{{"sequence-1", "EVQL"}, {"sequence-2", "DIQM"}}},
		{"records", Records(Record{"a", "EVQL"}, Record{"b", "DIQM"}), []Record{{"a", "EVQL"}, {"b", "DIQM"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Coerce(tc.in)
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoerceNameWidth(t *testing.T) {
	seqs := make([]string, 12)
	for i := range seqs {
		seqs[i] = "EVQL"
	}
	got, err := Coerce(Sequences(seqs...))
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got[0].Name != "sequence-01" || got[11].Name != "sequence-12" {
		t.Fatalf("zero padding wrong: %q ... %q", got[0].Name, got[11].Name)
	}
}

func TestCoerceInvalid(t *testing.T) {
	if _, err := Coerce(Input{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSplitPassThrough(t *testing.T) {
	got := Split([]Record{{"a", "EVQL"}})
	want := []Record{{"a", "EVQL"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitStripsEdgeDelimiters(t *testing.T) {
	got := Split([]Record{{"a", "-EVQL/"}})
	want := []Record{{"a", "EVQL"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitPairedSequence(t *testing.T) {
	got := Split([]Record{
		{"first", "AAAA"},
		{"pair", "EVQL/DIQM"},
		{"last", "CCCC"},
	})
	want := []Record{
		{"first", "AAAA"},
		{"pair-1", "EVQL"},
		{"pair-2", "DIQM"},
		{"last", "CCCC"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitPartNameWidth(t *testing.T) {
	parts := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		parts = append(parts, "EVQL")
	}
	seq := parts[0]
	for _, p := range parts[1:] {
		seq += "-" + p
	}
	got := Split([]Record{{"multi", seq}})
	if len(got) != 10 {
		t.Fatalf("expected 10 parts, got %d", len(got))
	}
	if got[0].Name != "multi-01" || got[9].Name != "multi-10" {
		t.Fatalf("part naming wrong: %q ... %q", got[0].Name, got[9].Name)
	}
}

func TestSplitMixedDelimiters(t *testing.T) {
	got := Split([]Record{{"p", `EVQL\DIQM-QSVL`}})
	want := []Record{{"p-1", "EVQL"}, {"p-2", "DIQM"}, {"p-3", "QSVL"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
