// Package suggest offers "did you mean '<name>'?" hints for unknown
// criterion/parameter/file-class names, using edit-distance similarity
// against the set of names actually registered.
package suggest

import "github.com/hbollon/go-edlib"

// threshold is the minimum similarity score (0..1) a candidate must
// clear to be offered as a suggestion; below this, silence is less
// confusing than a wrong guess.
const threshold = 0.6

// Suggest returns the closest candidate to got by Levenshtein
// similarity, if any candidate clears threshold.
func Suggest(candidates []string, got string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(got, c, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}

// Hint formats a suggestion as the ", did you mean '<name>'?" suffix
// used in unknown-criterion/unknown-parameter error messages, or the
// empty string if nothing cleared threshold.
func Hint(candidates []string, got string) string {
	if name, ok := Suggest(candidates, got); ok {
		return ", did you mean '" + name + "'?"
	}
	return ""
}
