// core/numbering/types.go
package numbering

import (
	"fmt"
	"sort"
	"strconv"
)

// Gap is the placeholder residue for a numbered position with no physical
// residue behind it.
const Gap = '-'

// FailedChain is the chain-type code reserved for sequences the model could
// not number.
const FailedChain = "F"

// Key identifies one residue position within a numbering scheme: the residue
// number plus an optional insertion letter (0 = no insertion).
type Key struct {
	Position  int
	Insertion byte
}

// String renders the key the way it appears in tabular output: "112", "112A".
func (k Key) String() string {
	if k.Insertion == 0 {
		return strconv.Itoa(k.Position)
	}
	return strconv.Itoa(k.Position) + string(k.Insertion)
}

// Less is the default total order: position first, then insertion letter with
// the blank insertion sorting before any letter. The IMGT scheme overrides
// this locally at the CDR boundaries (see imgt.go).
func (k Key) Less(other Key) bool {
	if k.Position != other.Position {
		return k.Position < other.Position
	}
	return k.Insertion < other.Insertion
}

// Residue is one numbered residue: a key plus the one-letter residue code,
// or Gap where the scheme position is unoccupied.
type Residue struct {
	Key     Key
	Residue byte
}

// Result is the numbering of a single sequence. QueryStart/QueryEnd are only
// meaningful when the sequence was numbered successfully.
type Result struct {
	Numbering  []Residue
	ChainType  string
	Score      float64
	QueryStart int
	QueryEnd   int
	Scheme     string
	Error      string
}

// Failed reports whether the model failed to number this sequence.
func (r Result) Failed() bool { return r.ChainType == FailedChain }

// Failure builds the Result recorded for a sequence that could not be
// numbered.
func Failure(scheme string, err error) Result {
	return Result{ChainType: FailedChain, Scheme: scheme, Error: err.Error()}
}

// ResultSet is an ordered name→Result mapping. Iteration order is always the
// order in which names were added, which the pipeline guarantees equals the
// post-normalization input order.
type ResultSet struct {
	names  []string
	byName map[string]Result
}

// NewResultSet returns an empty set with optional capacity.
func NewResultSet(capacity int) *ResultSet {
	return &ResultSet{
		names:  make([]string, 0, capacity),
		byName: make(map[string]Result, capacity),
	}
}

// Add appends a result, or replaces it in place if the name is already
// present.
func (rs *ResultSet) Add(name string, r Result) {
	if _, ok := rs.byName[name]; !ok {
		rs.names = append(rs.names, name)
	}
	rs.byName[name] = r
}

// Get looks a result up by name.
func (rs *ResultSet) Get(name string) (Result, bool) {
	r, ok := rs.byName[name]
	return r, ok
}

// Len returns the number of results.
func (rs *ResultSet) Len() int { return len(rs.names) }

// Names returns the names in iteration order. The slice is owned by the set.
func (rs *ResultSet) Names() []string { return rs.names }

// Each calls fn for every entry in iteration order.
func (rs *ResultSet) Each(fn func(name string, r Result) error) error {
	for _, n := range rs.names {
		if err := fn(n, rs.byName[n]); err != nil {
			return err
		}
	}
	return nil
}

// Reordered returns a new set holding the same results in the given name
// order. Every name must be present.
func (rs *ResultSet) Reordered(names []string) (*ResultSet, error) {
	out := NewResultSet(len(names))
	for _, n := range names {
		r, ok := rs.byName[n]
		if !ok {
			return nil, fmt.Errorf("numbering: no result for %q", n)
		}
		out.Add(n, r)
	}
	return out, nil
}

// Append moves every entry of other onto the end of rs, preserving other's
// order.
func (rs *ResultSet) Append(other *ResultSet) {
	for _, n := range other.names {
		rs.Add(n, other.byName[n])
	}
}

// SortKeys sorts keys in place by the default total order.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}
