package main

import (
	"testing"

	"github.com/petitchef/petit-chef/game/catalog"
)

func TestServeCost(t *testing.T) {
	costs := map[string]int{
		"tomate":     10,
		"mozzarella": 10,
		"basilic":    10,
	}

	t.Run("sums quantity times cost", func(t *testing.T) {
		recipe := catalog.Recipe{
			Name:  "Salade Caprese",
			Price: 35,
			RequiredIngredients: []catalog.RequiredIngredient{
				{Name: "Tomate", Quantity: 3},
				{Name: "Mozzarella", Quantity: 1},
			},
		}

		cost, unknown := serveCost(recipe, costs)
		if cost != 40 {
			t.Errorf("Expected cost 40, got %d", cost)
		}
		if len(unknown) != 0 {
			t.Errorf("Expected no unknown ingredients, got %v", unknown)
		}
	})

	t.Run("matches names case-insensitively", func(t *testing.T) {
		recipe := catalog.Recipe{
			RequiredIngredients: []catalog.RequiredIngredient{
				{Name: "BASILIC", Quantity: 2},
			},
		}

		cost, unknown := serveCost(recipe, costs)
		if cost != 20 {
			t.Errorf("Expected cost 20, got %d", cost)
		}
		if len(unknown) != 0 {
			t.Errorf("Expected no unknown ingredients, got %v", unknown)
		}
	})

	t.Run("reports unknown ingredients", func(t *testing.T) {
		recipe := catalog.Recipe{
			RequiredIngredients: []catalog.RequiredIngredient{
				{Name: "Tomate", Quantity: 1},
				{Name: "Truffe", Quantity: 1},
			},
		}

		cost, unknown := serveCost(recipe, costs)
		if cost != 10 {
			t.Errorf("Expected cost 10 for known ingredients only, got %d", cost)
		}
		if len(unknown) != 1 || unknown[0] != "Truffe" {
			t.Errorf("Expected unknown ingredients [Truffe], got %v", unknown)
		}
	})
}
