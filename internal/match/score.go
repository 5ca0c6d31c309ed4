// Package match implements lexical request matching over a workflow catalog:
// pattern scoring, intent recognition, keyword resolution and suggestion ranking.
package match

import "strings"

// containmentScore is returned when the pattern occurs verbatim in the input.
// It is deliberately below 1.0.
const containmentScore = 0.9

// Score returns a confidence in [0,1] that input expresses pattern. Both
// strings must already be normalized by the caller.
//
// A pattern contained in the input scores containmentScore. Otherwise the
// score is the fraction of distinct pattern words present in the input, which
// is recall over the pattern rather than a symmetric similarity.
func Score(input, pattern string) float64 {
	if pattern != "" && strings.Contains(input, pattern) {
		return containmentScore
	}

	patternWords := wordSet(pattern)
	if len(patternWords) == 0 {
		return 0.0
	}

	inputWords := wordSet(input)
	hits := 0
	for w := range patternWords {
		if inputWords[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(patternWords))
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// normalize is the single normalization applied to request text.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
