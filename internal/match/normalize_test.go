package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"case folded adjective and plural", "Fresh Tomatoes", "tomato"},
		{"plural es", "Potatoes", "potato"},
		{"plural s", "Eggs", "egg"},
		{"organic prefix", "Organic Milk", "milk"},
		{"large prefix", "large onions", "onion"},
		{"small prefix", "Small Carrots", "carrot"},
		{"trailing whitespace", "butter  ", "butter"},
		{"empty", "", ""},
		{"no embedded s stripped", "cheese", "cheese"},
		{"adjective mid-name kept", "sea salt", "sea salt"},
		{"processed tokens survive", "Garlic Powder", "garlic powder"},
		{"dried survives", "Dried Basil", "dried basil"},
		{"multi word plurals", "green onions", "green onion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, input := range []string{"Fresh Tomatoes", "green onions", "olive oil", "baking powder"} {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent on %q: %q then %q", input, once, twice)
		}
	}
}
