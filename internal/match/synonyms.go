package match

// synonyms maps a normalized ingredient name to its known alternate forms,
// also in normalized (singular, lowercase) form. The table is directional as
// written; lookups query both orderings so a pantry "eggplant" satisfies a
// recipe's "aubergine" and vice versa.
var synonyms = map[string][]string{
	"aubergine":       {"eggplant"},
	"courgette":       {"zucchini"},
	"cilantro":        {"coriander"},
	"scallion":        {"green onion", "spring onion"},
	"garbanzo bean":   {"chickpea"},
	"capsicum":        {"bell pepper"},
	"corn flour":      {"cornstarch"},
	"powdered sugar":  {"icing sugar", "confectioner sugar"},
	"rocket":          {"arugula"},
	"bicarb of soda":  {"baking soda", "sodium bicarbonate"},
	"mange tout":      {"snow pea", "snap pea"},
}

// synonymMatch reports whether a and b (normalized names) refer to the same
// ingredient per the synonym table, checked in both directions.
func synonymMatch(a, b string) bool {
	for _, alt := range synonyms[a] {
		if alt == b {
			return true
		}
	}
	for _, alt := range synonyms[b] {
		if alt == a {
			return true
		}
	}
	return false
}
