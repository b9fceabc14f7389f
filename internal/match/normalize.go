package match

import (
	"regexp"
	"strings"
)

// pluralRE strips a plural suffix at each word boundary. "es" first so
// "tomatoes" becomes "tomato", not "tomatoe". Not lemmatization: irregular
// plurals pass through untouched.
var pluralRE = regexp.MustCompile(`(?:es|s)\b`)

// descriptive adjectives removed when they lead the name
var adjectives = []string{"fresh", "organic", "large", "small"}

// Normalize canonicalizes an ingredient or pantry-item name for comparison:
// case folding, plural stripping, leading-adjective removal, trimming.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	n := strings.ToLower(name)
	n = pluralRE.ReplaceAllString(n, "")
	for _, adj := range adjectives {
		n = strings.TrimPrefix(n, adj+" ")
	}
	return strings.TrimSpace(n)
}
