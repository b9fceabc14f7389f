package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		req  Requirement
		item Item
		want float64
	}{
		{
			name: "staple overrides quantity shortfall",
			req:  Requirement{Name: "flour", Quantity: 5, Unit: "cup"},
			item: Item{Name: "flour", Quantity: 0, Unit: "cup"},
			want: 1.0,
		},
		{
			name: "fractional sufficiency",
			req:  Requirement{Name: "chicken", Quantity: 2, Unit: "lb"},
			item: Item{Name: "chicken", Quantity: 1, Unit: "lb"},
			want: 0.9,
		},
		{
			name: "name below cutoff short-circuits",
			req:  Requirement{Name: "chicken", Quantity: 2, Unit: "lb"},
			item: Item{Name: "rice", Quantity: 10, Unit: "lb"},
			want: 0,
		},
		{
			name: "surplus capped at one",
			req:  Requirement{Name: "milk", Quantity: 1, Unit: "cup"},
			item: Item{Name: "milk", Quantity: 10, Unit: "cup"},
			want: 1.0,
		},
		{
			name: "zero requirement is trivially sufficient",
			req:  Requirement{Name: "milk", Quantity: 0, Unit: "cup"},
			item: Item{Name: "milk", Quantity: 0, Unit: "cup"},
			want: 1.0,
		},
		{
			name: "cross unit within family",
			req:  Requirement{Name: "milk", Quantity: 480, Unit: "ml"},
			item: Item{Name: "milk", Quantity: 1, Unit: "cup"},
			want: 0.9,
		},
		{
			name: "synonym with full quantity",
			req:  Requirement{Name: "aubergine", Quantity: 1, Unit: "unit"},
			item: Item{Name: "eggplant", Quantity: 2, Unit: "unit"},
			want: 0.96,
		},
		{
			name: "processed mismatch fails cutoff",
			req:  Requirement{Name: "garlic powder", Quantity: 1, Unit: "tsp"},
			item: Item{Name: "fresh garlic", Quantity: 5, Unit: "unit"},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.req, tt.item), 1e-9)
		})
	}
}

func TestIsStaple(t *testing.T) {
	for _, name := range []string{"salt", "Water", "olive oil", "Baking Powder", "sugar"} {
		if !IsStaple(name) {
			t.Fatalf("expected %q to be a staple", name)
		}
	}
	for _, name := range []string{"saffron", "chicken", ""} {
		if IsStaple(name) {
			t.Fatalf("did not expect %q to be a staple", name)
		}
	}
}
