package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/petitchef/petit-chef/game/catalog"
)

// CreateIngredient inserts a catalog ingredient.
func (s *Store) CreateIngredient(ing *catalog.Ingredient) error {
	_, err := s.db.Exec(
		`INSERT INTO ingredients (id, name, category, cost, shelf_life_secs, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ing.ID, ing.Name, ing.Category, ing.Cost, int64(ing.ShelfLife.Seconds()), ing.Description, fmtTime(ing.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}
	return nil
}

// Ingredients lists the full ingredient catalog.
func (s *Store) Ingredients() ([]catalog.Ingredient, error) {
	rows, err := s.db.Query(
		`SELECT id, name, category, cost, shelf_life_secs, description, created_at FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var out []catalog.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ing)
	}
	return out, rows.Err()
}

// IngredientByID resolves one ingredient, returning catalog.ErrNotFound when
// absent.
func (s *Store) IngredientByID(id string) (*catalog.Ingredient, error) {
	return s.queryIngredient(`SELECT id, name, category, cost, shelf_life_secs, description, created_at
		FROM ingredients WHERE id = ?`, id)
}

// IngredientByName resolves an ingredient by exact, case-insensitive name.
func (s *Store) IngredientByName(name string) (*catalog.Ingredient, error) {
	return s.queryIngredient(`SELECT id, name, category, cost, shelf_life_secs, description, created_at
		FROM ingredients WHERE LOWER(name) = LOWER(?)`, name)
}

func (s *Store) queryIngredient(query string, arg any) (*catalog.Ingredient, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("query ingredient: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, catalog.ErrNotFound
	}
	return scanIngredient(rows)
}

func scanIngredient(rows *sql.Rows) (*catalog.Ingredient, error) {
	var ing catalog.Ingredient
	var shelfSecs int64
	var createdAt string
	if err := rows.Scan(&ing.ID, &ing.Name, &ing.Category, &ing.Cost, &shelfSecs, &ing.Description, &createdAt); err != nil {
		return nil, fmt.Errorf("scan ingredient: %w", err)
	}
	ing.ShelfLife = time.Duration(shelfSecs) * time.Second
	ing.CreatedAt = parseTime(createdAt)
	return &ing, nil
}

// CreateRecipe inserts a catalog recipe. The ingredient list is stored as a
// JSON snapshot.
func (s *Store) CreateRecipe(r *catalog.Recipe) error {
	required, err := json.Marshal(r.RequiredIngredients)
	if err != nil {
		return fmt.Errorf("marshal required ingredients: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO recipes (id, name, required_ingredients, description, difficulty, price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, string(required), r.Description, r.Difficulty, r.Price, fmtTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// Recipes lists the full recipe catalog.
func (s *Store) Recipes() ([]catalog.Recipe, error) {
	rows, err := s.db.Query(
		`SELECT id, name, required_ingredients, description, difficulty, price, created_at FROM recipes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []catalog.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// RecipeByID resolves one recipe, returning catalog.ErrNotFound when absent.
func (s *Store) RecipeByID(id string) (*catalog.Recipe, error) {
	rows, err := s.db.Query(
		`SELECT id, name, required_ingredients, description, difficulty, price, created_at FROM recipes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, catalog.ErrNotFound
	}
	return scanRecipe(rows)
}

func scanRecipe(rows *sql.Rows) (*catalog.Recipe, error) {
	var r catalog.Recipe
	var required, createdAt string
	if err := rows.Scan(&r.ID, &r.Name, &required, &r.Description, &r.Difficulty, &r.Price, &createdAt); err != nil {
		return nil, fmt.Errorf("scan recipe: %w", err)
	}
	if err := json.Unmarshal([]byte(required), &r.RequiredIngredients); err != nil {
		return nil, fmt.Errorf("unmarshal required ingredients: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// MarkDiscovered records a recipe as discovered by a player. Re-discovering
// is a no-op that keeps the original timestamp.
func (s *Store) MarkDiscovered(playerID, recipeID string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO discovered_recipes (player_id, recipe_id, discovered_at) VALUES (?, ?, ?)
		 ON CONFLICT (player_id, recipe_id) DO NOTHING`,
		playerID, recipeID, fmtTime(at),
	)
	if err != nil {
		return fmt.Errorf("mark discovered: %w", err)
	}
	return nil
}

// IsDiscovered reports whether the player has discovered the recipe.
func (s *Store) IsDiscovered(playerID, recipeID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM discovered_recipes WHERE player_id = ? AND recipe_id = ?`, playerID, recipeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("discovery check: %w", err)
	}
	return true, nil
}

// DiscoveredRecipes lists the recipes a player has discovered.
func (s *Store) DiscoveredRecipes(playerID string) ([]catalog.Recipe, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.name, r.required_ingredients, r.description, r.difficulty, r.price, r.created_at
		 FROM recipes r
		 JOIN discovered_recipes d ON d.recipe_id = r.id
		 WHERE d.player_id = ?
		 ORDER BY d.discovered_at DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list discovered recipes: %w", err)
	}
	defer rows.Close()

	var out []catalog.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
