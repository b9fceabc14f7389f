package match

// CheckAvailability reports, per ingredient, whether the pantry covers a
// recipe. The lookup is exact on normalized names, the coarse "do we have
// this item at all" decision; the fuzzy scorer stays a separate cross-check
// for lookup flows like autocomplete. Quantities compare raw in the
// requirement's unit: a snapshot is expected to stock an item in the unit
// recipes ask for it in.
func CheckAvailability(recipe Recipe, pantry []Item) Report {
	status := make([]Result, 0, len(recipe.Ingredients))
	canCook := true

	for _, req := range recipe.Ingredients {
		reqNorm := Normalize(req.Name)

		var found *Item
		for i := range pantry {
			if Normalize(pantry[i].Name) == reqNorm {
				found = &pantry[i]
				break
			}
		}

		current := 0.0
		hasEnough := false
		if found != nil {
			current = found.Quantity
			hasEnough = found.Quantity >= req.Quantity
		}

		missing := req.Quantity - current
		if missing < 0 {
			missing = 0
		}

		if !hasEnough {
			canCook = false
		}
		status = append(status, Result{
			Name:          req.Name,
			Required:      req.Quantity,
			Current:       current,
			Unit:          req.Unit,
			IsMissing:     !hasEnough,
			MissingAmount: missing,
		})
	}

	return Report{
		RecipeName:        recipe.Name,
		CanCook:           canCook,
		IngredientsStatus: status,
	}
}
