package match

import "strings"

// Fixed break points of the tiered similarity heuristic. Tiers keep the
// scoring explainable and testable; edit distance would not.
const (
	exactScore   = 1.0
	synonymScore = 0.95
	// fallbackFuzzy is the base a processed-form mismatch is halved from.
	fallbackFuzzy = 0.7
	containScore  = 0.8
	floorScore    = 0.2
)

// isProcessed classifies a raw, un-normalized name as a processed form.
// Deliberately tested before normalization: normalization does not strip
// these tokens, and "Dried Basil" vs "basil" must take the penalty branch
// before containment gets a look.
func isProcessed(raw string) bool {
	l := strings.ToLower(raw)
	return strings.Contains(l, "dried") || strings.Contains(l, "powder")
}

// NameSimilarity scores how plausibly a pantry item name refers to the same
// ingredient as a requirement name, in [0, 1]. First matching tier wins:
// exact after normalization, synonym, processed-form mismatch penalty,
// substring containment, weak floor.
func NameSimilarity(requirementName, pantryName string) float64 {
	reqNorm := Normalize(requirementName)
	panNorm := Normalize(pantryName)

	if reqNorm == panNorm {
		return exactScore
	}
	if synonymMatch(reqNorm, panNorm) {
		return synonymScore
	}
	if isProcessed(requirementName) != isProcessed(pantryName) {
		return fallbackFuzzy / 2
	}
	if strings.Contains(reqNorm, panNorm) || strings.Contains(panNorm, reqNorm) {
		return containScore
	}
	return floorScore
}
