package cmd

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/bgdnvk/flowctl/internal/catalog"
	"github.com/bgdnvk/flowctl/internal/match"
)

const (
	// closeMatchThreshold is the minimum normalized similarity for a candidate.
	closeMatchThreshold = 0.6
	// minTermLength keeps short words like "a" or "to" from matching anything.
	minTermLength = 3
)

type closeMatch struct {
	op    *catalog.Operation
	score float64
}

// closeOperations returns operations whose name or keywords are within a
// small edit distance of the input or one of its words, best first.
func closeOperations(input string, cat *catalog.Catalog, limit int) []closeMatch {
	if limit <= 0 {
		return nil
	}
	terms := candidateTerms(input)
	if len(terms) == 0 {
		return nil
	}

	var matches []closeMatch
	for _, op := range cat.Operations() {
		names := append([]string{op.Name}, op.Keywords...)

		best := 0.0
		for _, name := range names {
			n := normalizeName(name)
			for _, term := range terms {
				if s := similarity(term, n); s > best {
					best = s
				}
			}
		}
		if best >= closeMatchThreshold {
			matches = append(matches, closeMatch{op: op, score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// didYouMean returns the keys of the operations closest to input.
func didYouMean(input string, cat *catalog.Catalog, limit int) []string {
	matches := closeOperations(input, cat, limit)
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.op.Key()
	}
	return keys
}

// fuzzySuggestions presents close operations in the suggestion shape. Their
// relevance is zero since no keyword matched exactly.
func fuzzySuggestions(input string, cat *catalog.Catalog, limit int) []match.Suggestion {
	matches := closeOperations(input, cat, limit)
	out := make([]match.Suggestion, len(matches))
	for i, m := range matches {
		out[i] = match.Suggestion{
			Category:    m.op.Category,
			Operation:   m.op.Name,
			Description: m.op.Description,
			Op:          m.op,
		}
	}
	return out
}

// candidateTerms is the whole normalized input plus each word long enough
// to compare.
func candidateTerms(input string) []string {
	whole := normalizeName(input)
	if whole == "" {
		return nil
	}
	terms := []string{whole}
	for _, w := range strings.Fields(whole) {
		if w != whole && len([]rune(w)) >= minTermLength {
			terms = append(terms, w)
		}
	}
	return terms
}

func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
