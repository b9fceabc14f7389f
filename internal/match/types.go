// Package match decides whether a pantry satisfies a recipe: it normalizes
// ingredient names, converts units onto comparable scales, scores how well a
// pantry item matches a requested ingredient, and aggregates per-recipe
// availability. Everything here is pure and safe to call concurrently.
package match

// Requirement is an ingredient and quantity a recipe calls for. An empty
// unit means a discrete count.
type Requirement struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Item is a stocked pantry item. Snapshots are read-only during a match run.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Result is the per-requirement outcome of an availability check.
// MissingAmount is expressed in the requirement's own unit.
type Result struct {
	Name          string  `json:"name"`
	Required      float64 `json:"required"`
	Current       float64 `json:"current"`
	Unit          string  `json:"unit"`
	IsMissing     bool    `json:"isMissing"`
	MissingAmount float64 `json:"missingAmount"`
}

// Recipe is the slice of a stored recipe the engine needs.
type Recipe struct {
	Name        string        `json:"name"`
	Ingredients []Requirement `json:"ingredients"`
}

// Report answers "can I cook this?". IngredientsStatus has exactly one entry
// per recipe ingredient, in recipe order.
type Report struct {
	RecipeName        string   `json:"recipeName"`
	CanCook           bool     `json:"canCook"`
	IngredientsStatus []Result `json:"ingredientsStatus"`
}
