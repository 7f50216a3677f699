package triplet

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RewriteAnyLevel validates and rewrites an any-level ("**") path
// pattern: every "**" occurrence must be flanked by '/' on any side
// that is not the string boundary (otherwise KindMalformedPattern, a
// hard error — not a warning). Once validated, non-escaped '?' is
// replaced with '[!/]' and '**' collapses to '*'. A lone '*' already
// present in the same pattern becomes indistinguishable from the
// collapsed any-level token; warning reports that ambiguity to the
// caller without failing the compile (resolved Open Question, see
// DESIGN.md).
func RewriteAnyLevel(pattern string) (rewritten string, warning string, err error) {
	if err := checkAnyLevelAdjacency(pattern); err != nil {
		return "", "", err
	}

	hadLoneStar := hasLoneStar(pattern)

	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '?' && (i == 0 || pattern[i-1] != '\\') {
			b.WriteString("[!/]")
			continue
		}
		b.WriteByte(pattern[i])
	}
	rewritten = strings.ReplaceAll(b.String(), "**", "*")

	if hadLoneStar {
		warning = fmt.Sprintf(
			"pattern %q mixes a single '*' with '**': the rewritten pattern no longer distinguishes them", pattern)
	}

	if _, matchErr := doublestar.Match(rewritten, syntheticProbePath(rewritten)); matchErr != nil {
		return "", "", fmt.Errorf("malformed pattern after any-level rewrite %q: %w", rewritten, matchErr)
	}

	return rewritten, warning, nil
}

// checkAnyLevelAdjacency enforces that every "**" in pattern is preceded
// and followed by '/' (or a string boundary), matching
// process_any_level_condition's validation exactly.
func checkAnyLevelAdjacency(pattern string) error {
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] != '*' || pattern[i+1] != '*' {
			continue
		}
		if i > 0 && pattern[i-1] != '/' {
			return fmt.Errorf("character before and after '**' must be a '/' in %q", pattern)
		}
		after := i + 2
		if after < len(pattern) && pattern[after] != '/' {
			return fmt.Errorf("character before and after '**' must be a '/' in %q", pattern)
		}
	}
	return nil
}

// hasLoneStar reports whether pattern contains a '*' that is not part
// of a "**" run.
func hasLoneStar(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' {
			continue
		}
		before := i > 0 && pattern[i-1] == '*'
		after := i+1 < len(pattern) && pattern[i+1] == '*'
		if !before && !after {
			return true
		}
	}
	return false
}

// syntheticProbePath builds a plausible path to self-check a rewritten
// pattern with doublestar.Match: enough path components that a
// "*/middle/*" shaped pattern has something to match against, without
// needing a real filesystem.
func syntheticProbePath(pattern string) string {
	depth := strings.Count(pattern, "/") + 1
	segs := make([]string, 0, depth)
	for i := 0; i < depth; i++ {
		segs = append(segs, "seg")
	}
	return strings.Join(segs, "/")
}
