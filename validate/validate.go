// Command validate checks the consistency of the ingredient and recipe
// catalog stored in the database. It checks:
//   - Ingredient fields: unique names, positive cost, positive shelf life
//   - Recipe fields: non-empty name, positive price, known difficulty
//   - Recipe ingredient lists: non-empty, positive quantities
//   - Referential integrity: every required ingredient exists in the catalog
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/storage"
)

var validDifficulties = map[string]bool{
	"facile":    true,
	"moyen":     true,
	"difficile": true,
}

// ValidationResult captures the outcome of validating a single catalog entry.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	Name   string
	Valid  bool
	Errors []string
}

// validateIngredients checks every ingredient for valid fields and duplicate
// names, and returns the per-ingredient results.
func validateIngredients(ingredients []catalog.Ingredient) []ValidationResult {
	results := make([]ValidationResult, 0, len(ingredients))
	seen := map[string]bool{}

	for _, ing := range ingredients {
		result := ValidationResult{Name: ing.Name, Valid: true, Errors: []string{}}

		key := strings.ToLower(ing.Name)
		if strings.TrimSpace(ing.Name) == "" {
			result.Valid = false
			result.Errors = append(result.Errors, "Ingredient name is empty")
		} else if seen[key] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate ingredient name: %s", ing.Name))
		}
		seen[key] = true

		if ing.Cost <= 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("cost must be positive, got %d", ing.Cost))
		}
		if ing.ShelfLife <= 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("shelf life must be positive, got %s", ing.ShelfLife))
		}

		if result.Valid {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Cost: %dG, shelf life: %s", ing.Cost, ing.ShelfLife))
		}
		results = append(results, result)
	}
	return results
}

// validateRecipe checks a single recipe's fields and that every required
// ingredient is present in knownIngredients (lowercased names).
func validateRecipe(recipe catalog.Recipe, knownIngredients map[string]bool) ValidationResult {
	result := ValidationResult{Name: recipe.Name, Valid: true, Errors: []string{}}

	if strings.TrimSpace(recipe.Name) == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Recipe name is empty")
	}
	if recipe.Price <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("price must be positive, got %d", recipe.Price))
	}
	if !validDifficulties[recipe.Difficulty] {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid difficulty: %q", recipe.Difficulty))
	}

	if len(recipe.RequiredIngredients) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Recipe has no required ingredients")
	}
	for _, req := range recipe.RequiredIngredients {
		if req.Quantity <= 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Quantity for %q must be positive, got %d", req.Name, req.Quantity))
		}
		if !knownIngredients[strings.ToLower(req.Name)] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Unknown ingredient: %s", req.Name))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Price: %dG", recipe.Price))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Difficulty: %s", recipe.Difficulty))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ingredients: %d", len(recipe.RequiredIngredients)))
	}
	return result
}

// main loads the catalog from the database and validates each entry, printing
// a concise report and exiting with non-zero status if any are invalid.
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

	known := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		known[strings.ToLower(ing.Name)] = true
	}

	allValid := true
	results := validateIngredients(ingredients)
	for _, recipe := range recipes {
		results = append(results, validateRecipe(recipe, known))
	}

	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.Name)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ Catalog is consistent!")
	} else {
		fmt.Println("❌ Catalog has errors")
		os.Exit(1)
	}
}
