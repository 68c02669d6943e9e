package fields

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// similarityThreshold is the minimum ratio for an alias to match a whole line.
const similarityThreshold = 0.8

// Ratio returns the SequenceMatcher similarity of a and b compared rune by rune.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func similar(alias, lowerLine string) bool {
	return Ratio(strings.ToLower(alias), lowerLine) >= similarityThreshold
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
