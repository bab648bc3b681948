// Package catalog defines the immutable reference data of the game:
// purchasable ingredients and the recipes that consume them.
package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned by catalog stores when no entry matches.
var ErrNotFound = errors.New("catalog entry not found")

// Ingredient is a catalog entry for a purchasable, perishable ingredient.
type Ingredient struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Cost        int           `json:"cost"`
	ShelfLife   time.Duration `json:"shelf_life"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
}

// RequiredIngredient is one line of a recipe's ingredient list.
type RequiredIngredient struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Recipe is a catalog entry for a dish players can discover and serve.
type Recipe struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	RequiredIngredients []RequiredIngredient `json:"required_ingredients"`
	Description         string               `json:"description"`
	Difficulty          string               `json:"difficulty"`
	Price               int                  `json:"price"`
	CreatedAt           time.Time            `json:"created_at"`
}

// DiscoveredRecipe marks a (player, recipe) pair as discovered in the lab.
type DiscoveredRecipe struct {
	PlayerID     string    `json:"player_id"`
	RecipeID     string    `json:"recipe_id"`
	DiscoveredAt time.Time `json:"discovered_at"`
}
