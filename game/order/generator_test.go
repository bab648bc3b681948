package order

import (
	"testing"
	"time"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/config"
)

type fakeRecipes struct {
	recipes []catalog.Recipe
	err     error
}

func (f *fakeRecipes) Recipes() ([]catalog.Recipe, error) { return f.recipes, f.err }

func testConfig(vipChance float64) *config.Config {
	return &config.Config{
		OrderTimeout:       30 * time.Second,
		VIPOrderTimeout:    20 * time.Second,
		DefaultRecipePrice: 50,
		VIPChance:          vipChance,
		VIPPriceMultiplier: 3,
	}
}

func testRecipe() catalog.Recipe {
	return catalog.Recipe{
		ID:         "r1",
		Name:       "Salade Caprese",
		Difficulty: "facile",
		Price:      35,
		RequiredIngredients: []catalog.RequiredIngredient{
			{Name: "Tomate", Quantity: 3},
		},
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("empty catalog yields no order and no error", func(t *testing.T) {
		gen := NewGenerator(&fakeRecipes{}, testConfig(0))
		o, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if o != nil {
			t.Errorf("Expected nil order for empty catalog, got %+v", o)
		}
	})

	t.Run("standard order carries catalog price and timeout", func(t *testing.T) {
		gen := NewGenerator(&fakeRecipes{recipes: []catalog.Recipe{testRecipe()}}, testConfig(0))
		o, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if o.IsVIP {
			t.Error("Expected standard order with VIP chance 0")
		}
		if o.Price != 35 {
			t.Errorf("Expected price 35, got %d", o.Price)
		}
		if o.TimeLimit != 30*time.Second {
			t.Errorf("Expected 30s time limit, got %s", o.TimeLimit)
		}
		if !o.ExpiresAt.Equal(o.CreatedAt.Add(30 * time.Second)) {
			t.Errorf("Expected expiry 30s after creation, got %s", o.ExpiresAt)
		}
		if o.RecipeID != "r1" || o.RecipeName != "Salade Caprese" {
			t.Errorf("Unexpected recipe binding: %s / %s", o.RecipeID, o.RecipeName)
		}
		if len(o.RequiredIngredients) != 1 {
			t.Errorf("Expected required ingredients carried over, got %v", o.RequiredIngredients)
		}
	})

	t.Run("VIP order triples the price on a shorter deadline", func(t *testing.T) {
		gen := NewGenerator(&fakeRecipes{recipes: []catalog.Recipe{testRecipe()}}, testConfig(1))
		o, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !o.IsVIP {
			t.Fatal("Expected VIP order with VIP chance 1")
		}
		if o.Price != 105 {
			t.Errorf("Expected VIP price 105, got %d", o.Price)
		}
		if o.TimeLimit != 20*time.Second {
			t.Errorf("Expected 20s VIP time limit, got %s", o.TimeLimit)
		}
	})

	t.Run("missing price falls back to the default", func(t *testing.T) {
		recipe := testRecipe()
		recipe.Price = 0
		gen := NewGenerator(&fakeRecipes{recipes: []catalog.Recipe{recipe}}, testConfig(0))
		o, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if o.Price != 50 {
			t.Errorf("Expected default price 50, got %d", o.Price)
		}
	})

	t.Run("order ids are unique", func(t *testing.T) {
		gen := NewGenerator(&fakeRecipes{recipes: []catalog.Recipe{testRecipe()}}, testConfig(0))
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			o, err := gen.Generate()
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if seen[o.ID] {
				t.Fatalf("Duplicate order id %s", o.ID)
			}
			seen[o.ID] = true
		}
	})
}
