package match

import (
	"errors"
	"fmt"
	"strings"
)

// Family is the canonical scale a unit converts into: ml for volume, g for
// weight, a plain count for discrete units. Families are not
// cross-convertible (no density model).
type Family string

const (
	FamilyVolume  Family = "volume"
	FamilyWeight  Family = "weight"
	FamilyCount   Family = "count"
	FamilyUnknown Family = "unknown"
)

var ErrUnknownUnit = errors.New("unrecognized unit")

type unitDef struct {
	family Family
	toBase float64
}

var unitTable = map[string]unitDef{
	"ml":         {FamilyVolume, 1},
	"cup":        {FamilyVolume, 240},
	"tablespoon": {FamilyVolume, 15},
	"tbsp":       {FamilyVolume, 15},
	"teaspoon":   {FamilyVolume, 5},
	"tsp":        {FamilyVolume, 5},
	"g":          {FamilyWeight, 1},
	"kg":         {FamilyWeight, 1000},
	"oz":         {FamilyWeight, 28.35},
	"lb":         {FamilyWeight, 453.59},
	"unit":       {FamilyCount, 1},
	"can":        {FamilyCount, 400},
}

func normalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	return strings.TrimSuffix(u, "s")
}

// ConvertToBase maps a quantity in the given unit onto its family's base
// scale. Unknown units fall back to a multiplier of 1: uncurated unit strings
// are treated as already-canonical rather than rejected.
func ConvertToBase(quantity float64, unit string) float64 {
	def, ok := unitTable[normalizeUnit(unit)]
	if !ok {
		return quantity
	}
	return quantity * def.toBase
}

// ConvertToBaseStrict is ConvertToBase for callers that want unrecognized
// units surfaced instead of silently passed through.
func ConvertToBaseStrict(quantity float64, unit string) (float64, error) {
	def, ok := unitTable[normalizeUnit(unit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return quantity * def.toBase, nil
}

// UnitFamily reports which family a unit belongs to, for callers that want
// to detect cross-family comparisons before scoring.
func UnitFamily(unit string) Family {
	def, ok := unitTable[normalizeUnit(unit)]
	if !ok {
		return FamilyUnknown
	}
	return def.family
}
