// Command analyze prints quick, human-readable economics about the recipe
// catalog stored in the database. For each recipe it summarizes the ingredient
// cost per serve, the net margin at the listed price and at VIP pricing, and
// highlights recipes that reference unknown ingredients or sell at a loss.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/storage"
)

// vipMultiplier mirrors the price multiplier applied to VIP orders.
const vipMultiplier = 3

func main() {
	dbPath := flag.String("db", "petitchef.db", "SQLite database path")
	flag.Parse()

	store, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ingredients, err := store.Ingredients()
	if err != nil {
		fmt.Printf("Error loading ingredients: %v\n", err)
		os.Exit(1)
	}
	recipes, err := store.Recipes()
	if err != nil {
		fmt.Printf("Error loading recipes: %v\n", err)
		os.Exit(1)
	}

	costByName := make(map[string]int, len(ingredients))
	for _, ing := range ingredients {
		costByName[strings.ToLower(ing.Name)] = ing.Cost
	}

	fmt.Printf("Catalog: %d ingredients, %d recipes\n", len(ingredients), len(recipes))

	lossCount := 0
	for _, recipe := range recipes {
		fmt.Printf("\n=== Analyzing %s ===\n", recipe.Name)
		fmt.Printf("Difficulty: %s\n", recipe.Difficulty)
		fmt.Printf("Price: %dG (VIP: %dG)\n", recipe.Price, recipe.Price*vipMultiplier)

		cost, unknown := serveCost(recipe, costByName)
		fmt.Printf("Ingredient cost per serve: %dG\n", cost)

		if len(unknown) > 0 {
			fmt.Printf("⚠️  WARNING: %d required ingredients are not in the catalog!\n", len(unknown))
			for _, name := range unknown {
				fmt.Printf("   Unknown ingredient: %s\n", name)
			}
		}

		margin := recipe.Price - cost
		vipMargin := recipe.Price*vipMultiplier - cost
		if margin < 0 {
			lossCount++
			fmt.Printf("⚠️  CRITICAL: recipe sells at a loss (%dG per serve)\n", margin)
		} else {
			fmt.Printf("✅ Margin: +%dG per serve (VIP: +%dG)\n", margin, vipMargin)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if lossCount > 0 {
		fmt.Printf("⚠️  %d recipes sell at a loss\n", lossCount)
	} else {
		fmt.Println("✅ All recipes are profitable at list price")
	}
}

// serveCost sums the catalog cost of one serve of a recipe. Ingredient names
// are matched case-insensitively; unmatched names are returned separately.
func serveCost(recipe catalog.Recipe, costByName map[string]int) (int, []string) {
	total := 0
	var unknown []string
	for _, req := range recipe.RequiredIngredients {
		cost, ok := costByName[strings.ToLower(req.Name)]
		if !ok {
			unknown = append(unknown, req.Name)
			continue
		}
		total += cost * req.Quantity
	}
	return total, unknown
}
