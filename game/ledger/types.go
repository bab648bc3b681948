package ledger

import "time"

// TransactionType classifies an audit record.
type TransactionType string

const (
	TxIngredientPurchase TransactionType = "ingredient_purchase"
	TxDishSale           TransactionType = "dish_sale"
	TxPenalty            TransactionType = "penalty"
)

// Player is the persistent state of one restaurant. Satisfaction, treasury and
// stars are mutated exclusively through Ledger operations so every change
// leaves a Transaction behind.
type Player struct {
	ID              string    `json:"id"`
	RestaurantName  string    `json:"restaurant_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Satisfaction    int       `json:"satisfaction"`
	Treasury        int       `json:"treasury"`
	Stars           int       `json:"stars"`
	IsServiceActive bool      `json:"is_service_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Transaction is an append-only audit record of a treasury change.
type Transaction struct {
	ID           string          `json:"id"`
	PlayerID     string          `json:"player_id"`
	Type         TransactionType `json:"type"`
	Amount       int             `json:"amount"`
	Description  string          `json:"description"`
	RecipeID     string          `json:"recipe_id,omitempty"`
	IngredientID string          `json:"ingredient_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
