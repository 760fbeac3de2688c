package match

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity is the normalized edit-distance similarity of a and b in
// [0, 1]. Lengths are counted in runes and the comparison is case
// sensitive; two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1.0
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(longest-d) / float64(longest)
}
