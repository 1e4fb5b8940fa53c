// core/numbering/imgt.go
package numbering

// SchemeIMGT is the scheme name for which insertion reversal applies.
const SchemeIMGT = "imgt"

// imgtReversed are the residue numbers at which IMGT numbers CDR insertions
// inward: insertion letters at these positions run from the highest letter
// down to the bare number.
var imgtReversed = [...]int{33, 61, 112}

// OrderKeys returns keys in canonical column order for the given scheme.
// Only IMGT deviates from the default total order.
func OrderKeys(keys []Key, scheme string) []Key {
	sorted := append([]Key(nil), keys...)
	SortKeys(sorted)
	if scheme != SchemeIMGT {
		return sorted
	}
	return imgtOrder(sorted)
}

// imgtOrder reorders default-sorted keys so that each reversal boundary's
// keys appear in descending insertion order (bare number last), with the
// ordinary ascending runs between boundaries untouched.
func imgtOrder(sorted []Key) []Key {
	out := make([]Key, 0, len(sorted))
	i := 0
	for _, bound := range imgtReversed {
		for i < len(sorted) && sorted[i].Position < bound {
			out = append(out, sorted[i])
			i++
		}
		start := i
		for i < len(sorted) && sorted[i].Position == bound {
			i++
		}
		for j := i - 1; j >= start; j-- {
			out = append(out, sorted[j])
		}
	}
	out = append(out, sorted[i:]...)
	return out
}
