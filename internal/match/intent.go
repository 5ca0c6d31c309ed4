package match

import (
	"fmt"

	"github.com/bgdnvk/flowctl/internal/activity"
	"github.com/bgdnvk/flowctl/internal/catalog"
)

// IntentMatch is the recognized action label and its confidence.
type IntentMatch struct {
	Intent     string
	Action     string
	Confidence float64
}

// MatchIntent scores the input against every pattern of every intent and
// returns the best candidate that reaches its intent's threshold. Only a
// strictly greater confidence replaces the current best, so ties keep the
// earliest candidate in catalog order. Intents without an action never match.
// The result is informational; it does not select a workflow.
func MatchIntent(input string, intents []*catalog.Intent, rec activity.Recorder) (IntentMatch, bool) {
	text := normalize(input)

	var best IntentMatch
	found := false
	for _, intent := range intents {
		if intent.Action == "" {
			continue
		}
		for _, pattern := range intent.Patterns {
			confidence := Score(text, normalize(pattern))
			if confidence < intent.Threshold {
				continue
			}
			// best starts at zero, so a zero-confidence candidate never wins
			// even under a zero threshold.
			if confidence > best.Confidence {
				best = IntentMatch{
					Intent:     intent.Name,
					Action:     intent.Action,
					Confidence: confidence,
				}
				found = true
			}
		}
	}

	if !found {
		return IntentMatch{}, false
	}

	if rec != nil {
		rec.Record(activity.LevelInfo, fmt.Sprintf("Intent recognized: %s (confidence: %.2f)", best.Action, best.Confidence))
	}
	return best, true
}
