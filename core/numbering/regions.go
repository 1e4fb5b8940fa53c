// core/numbering/regions.go
package numbering

// Region is one framework or CDR segment of an IMGT-numbered domain.
type Region struct {
	Name     string
	Residues []Residue
}

// IMGT region start positions. Each region runs up to the next start; FR4
// runs to the end of the numbering.
var imgtRegionStarts = []struct {
	name  string
	start int
}{
	{"fr1", 1},
	{"cdr1", 27},
	{"fr2", 39},
	{"cdr2", 56},
	{"fr3", 66},
	{"cdr3", 105},
	{"fr4", 118},
}

// IMGTRegions slices an IMGT-numbered result into its seven canonical
// regions, in order. Gap entries are dropped. A failed result yields seven
// empty regions.
func IMGTRegions(r Result) []Region {
	out := make([]Region, len(imgtRegionStarts))
	for i, rg := range imgtRegionStarts {
		out[i].Name = rg.name
	}
	if r.Failed() {
		return out
	}
	for _, res := range r.Numbering {
		if res.Residue == Gap {
			continue
		}
		idx := 0
		for i := len(imgtRegionStarts) - 1; i >= 0; i-- {
			if res.Key.Position >= imgtRegionStarts[i].start {
				idx = i
				break
			}
		}
		out[idx].Residues = append(out[idx].Residues, res)
	}
	return out
}
