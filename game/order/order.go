// Package order defines the ephemeral customer order and its randomized
// generator. Orders live only inside an active session; they are never
// persisted.
package order

import (
	"time"

	"github.com/petitchef/petit-chef/game/catalog"
)

// Order is one customer request. It is created by the Generator, lives in
// exactly one session's order set, and is destroyed on serve, reject or
// expiry, whichever comes first.
type Order struct {
	ID                  string                       `json:"id"`
	RecipeID            string                       `json:"recipe_id"`
	RecipeName          string                       `json:"recipe_name"`
	Difficulty          string                       `json:"difficulty"`
	Price               int                          `json:"price"`
	RequiredIngredients []catalog.RequiredIngredient `json:"required_ingredients"`
	IsVIP               bool                         `json:"is_vip"`
	CreatedAt           time.Time                    `json:"created_at"`
	ExpiresAt           time.Time                    `json:"expires_at"`
	TimeLimit           time.Duration                `json:"time_limit"`
}
