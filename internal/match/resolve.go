package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/catalog"
)

// DefaultSuggestLimit is the number of suggestions shown to the user.
const DefaultSuggestLimit = 5

// Resolution identifies the operation chosen for a request.
type Resolution struct {
	Category  string
	Operation string
	Op        *catalog.Operation
}

// Suggestion is a ranked candidate operation.
type Suggestion struct {
	Category    string
	Operation   string
	Description string
	Relevance   int
	Op          *catalog.Operation
}

// Resolution converts a suggestion into the form the dispatcher consumes.
func (s Suggestion) Resolution() Resolution {
	return Resolution{Category: s.Category, Operation: s.Operation, Op: s.Op}
}

// ResolveByKeyword returns the first operation, in catalog order, with any
// keyword contained in the input. It stops at the first hit: a later operation
// matching more keywords is never considered.
func ResolveByKeyword(input string, cat *catalog.Catalog, rec activity.Recorder) (Resolution, bool) {
	text := strings.ToLower(input)

	for _, category := range cat.Categories {
		for _, op := range category.Operations {
			for _, keyword := range op.Keywords {
				if !strings.Contains(text, strings.ToLower(keyword)) {
					continue
				}
				if rec != nil {
					rec.Record(activity.LevelInfo, fmt.Sprintf("Workflow matched: %s", op.Key()))
				}
				return Resolution{Category: category.Name, Operation: op.Name, Op: op}, true
			}
		}
	}
	return Resolution{}, false
}

// Suggest ranks every operation by the number of its keywords contained in
// the input. Operations with no hits are left out, ties keep catalog order,
// and at most limit suggestions are returned.
func Suggest(input string, cat *catalog.Catalog, limit int) []Suggestion {
	if limit <= 0 {
		return nil
	}
	text := strings.ToLower(input)

	var suggestions []Suggestion
	for _, category := range cat.Categories {
		for _, op := range category.Operations {
			relevance := 0
			for _, keyword := range op.Keywords {
				if strings.Contains(text, strings.ToLower(keyword)) {
					relevance++
				}
			}
			if relevance == 0 {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Category:    category.Name,
				Operation:   op.Name,
				Description: op.Description,
				Relevance:   relevance,
				Op:          op,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Relevance > suggestions[j].Relevance
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
