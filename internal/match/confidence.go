package match

import "math"

// staples are assumed always sufficiently available regardless of tracked
// quantity, matched by normalized name.
var staples = map[string]struct{}{
	"salt":          {},
	"water":         {},
	"pepper":        {},
	"olive oil":     {},
	"flour":         {},
	"sugar":         {},
	"baking powder": {},
}

// Names below this similarity are rejected outright: quantity sufficiency
// against the wrong ingredient is meaningless.
const nameScoreCutoff = 0.4

const (
	nameWeight     = 0.8
	quantityWeight = 0.2
)

func IsStaple(name string) bool {
	_, ok := staples[Normalize(name)]
	return ok
}

// Confidence scores how well a pantry item satisfies a requirement, in
// [0, 1] rounded to two decimals. Name similarity dominates the blend;
// quantity sufficiency is fractional below the required amount and capped at
// 1.0 above it. Negative pantry quantities are the caller's to clamp.
func Confidence(req Requirement, item Item) float64 {
	nameScore := NameSimilarity(req.Name, item.Name)
	if nameScore < nameScoreCutoff {
		return 0
	}

	quantityScore := 1.0
	if !IsStaple(req.Name) {
		reqBase := ConvertToBase(req.Quantity, req.Unit)
		itemBase := ConvertToBase(item.Quantity, item.Unit)
		if reqBase > 0 && itemBase < reqBase {
			quantityScore = itemBase / reqBase
		}
	}

	score := nameScore*nameWeight + quantityScore*quantityWeight
	return math.Round(score*100) / 100
}
