// core/numbering/schemes.go
package numbering

import "fmt"

// SchemeRaw numbers residues sequentially from 1 with no insertion letters.
const SchemeRaw = "raw"

// Convert produces a new ResultSet renumbered in the target scheme. The
// input set is never mutated, so the original scheme's output remains
// replayable. Failed sequences carry over unchanged apart from the scheme
// stamp.
func Convert(rs *ResultSet, scheme string) (*ResultSet, error) {
	conv, ok := converters[scheme]
	if !ok {
		return nil, fmt.Errorf("numbering: unsupported scheme %q", scheme)
	}
	out := NewResultSet(rs.Len())
	err := rs.Each(func(name string, r Result) error {
		out.Add(name, conv(r))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var converters = map[string]func(Result) Result{
	SchemeIMGT: func(r Result) Result {
		r.Numbering = append([]Residue(nil), r.Numbering...)
		r.Scheme = SchemeIMGT
		return r
	},
	SchemeRaw: toRaw,
}

// toRaw strips scheme positions entirely: occupied positions are renumbered
// 1..N in order and gap entries are dropped.
func toRaw(r Result) Result {
	out := r
	out.Scheme = SchemeRaw
	out.Numbering = make([]Residue, 0, len(r.Numbering))
	n := 0
	for _, res := range r.Numbering {
		if res.Residue == Gap {
			continue
		}
		n++
		out.Numbering = append(out.Numbering, Residue{Key: Key{Position: n}, Residue: res.Residue})
	}
	return out
}
