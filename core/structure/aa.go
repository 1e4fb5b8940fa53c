// core/structure/aa.go
package structure

import "strings"

var threeToOne = map[string]byte{
	"ALA": 'A', "CYS": 'C', "ASP": 'D', "GLU": 'E', "PHE": 'F',
	"GLY": 'G', "HIS": 'H', "ILE": 'I', "LYS": 'K', "LEU": 'L',
	"MET": 'M', "ASN": 'N', "PRO": 'P', "GLN": 'Q', "ARG": 'R',
	"SER": 'S', "THR": 'T', "VAL": 'V', "TRP": 'W', "TYR": 'Y',
}

// OneLetterCode maps a three-letter residue name to its one-letter code,
// or 'X' for anything non-standard.
func OneLetterCode(name string) byte {
	if c, ok := threeToOne[strings.ToUpper(name)]; ok {
		return c
	}
	return 'X'
}

// minRepeatLen is the minimum subsequence length considered a repeat.
const minRepeatLen = 50

// RepeatedSubsequences counts repeated subsequences of at least 50 residues
// within seq. A non-zero count on a structural chain usually means several
// copies of the same domain, which a single numbering pass cannot cover.
func RepeatedSubsequences(seq string) int {
	count := 0
	for i := 0; i+minRepeatLen <= len(seq); {
		matched := 0
		for l := len(seq) - i; l >= minRepeatLen; l-- {
			if strings.Contains(seq[i+1:], seq[i:i+l]) {
				matched = l
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}
		count++
		i += matched
	}
	return count
}
