package match

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Suggestion is a pantry item ranked against an autocomplete query.
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SuggestMatches ranks pantry items against a free-form query for
// autocomplete. Scoring is the confidence blend with a zero-quantity
// requirement, so quantity never penalizes a suggestion; items the scorer
// rejects outright are dropped. Ties break on edit distance to the query,
// then name, to keep the ordering stable.
func SuggestMatches(query string, pantry []Item, limit int) []Suggestion {
	queryNorm := Normalize(query)
	req := Requirement{Name: query}

	suggestions := make([]Suggestion, 0, len(pantry))
	for _, item := range pantry {
		score := Confidence(req, item)
		if score == 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{Name: item.Name, Score: score})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		di := levenshtein.ComputeDistance(queryNorm, Normalize(suggestions[i].Name))
		dj := levenshtein.ComputeDistance(queryNorm, Normalize(suggestions[j].Name))
		if di != dj {
			return di < dj
		}
		return suggestions[i].Name < suggestions[j].Name
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
