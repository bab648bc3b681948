package service

import (
	"context"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/session"
)

// Server-to-client event names.
const (
	EventServiceStarted = "service:started"
	EventServiceStopped = "service:stopped"
	EventServeResult    = "order:serve_result"
	EventOrderExpired   = "order:expired"
	EventOrderRejected  = "order:rejected"
	EventGameOver       = "service:gameover"
	EventServiceError   = "service:error"
)

// GameService is the gateway-facing surface of the resolution engine. All
// outcomes are pushed to the player's event sink rather than returned; per
// player errors stay client-local.
type GameService interface {
	StartService(ctx context.Context, playerID string, sink session.EventSink)
	StopService(ctx context.Context, playerID string, sink session.EventSink)
	ServeOrder(ctx context.Context, playerID, orderID, recipeID string, sink session.EventSink)
	RejectOrder(ctx context.Context, playerID, orderID string, sink session.EventSink)

	// Disconnect stops the in-memory session without touching the persisted
	// active flag. See the reconnect note in DESIGN.md.
	Disconnect(playerID string)
}

// DiscoveryStore checks the per-player discovered-recipe fact.
type DiscoveryStore interface {
	IsDiscovered(playerID, recipeID string) (bool, error)
}

// RecipeStore resolves one recipe from the catalog.
type RecipeStore interface {
	RecipeByID(id string) (*catalog.Recipe, error)
}

// StatePayload carries the player's headline figures.
type StatePayload struct {
	Satisfaction int `json:"satisfaction"`
	Treasury     int `json:"treasury"`
	Stars        int `json:"stars"`
}

// ServeResultPayload is the outcome of a serve attempt. The numeric fields
// are present only when the attempt mutated player state.
type ServeResultPayload struct {
	Success      bool   `json:"success"`
	OrderID      string `json:"order_id"`
	IsVIP        bool   `json:"is_vip,omitempty"`
	RecipeName   string `json:"recipe_name,omitempty"`
	Satisfaction *int   `json:"satisfaction,omitempty"`
	Treasury     *int   `json:"treasury,omitempty"`
	Stars        *int   `json:"stars,omitempty"`
	Revenue      int    `json:"revenue,omitempty"`
	Message      string `json:"message"`
}

// OrderClosedPayload reports an order removed by expiry or rejection.
type OrderClosedPayload struct {
	OrderID      string `json:"order_id"`
	RecipeName   string `json:"recipe_name"`
	IsVIP        bool   `json:"is_vip"`
	Satisfaction int    `json:"satisfaction"`
	Treasury     int    `json:"treasury"`
	Stars        int    `json:"stars"`
	Message      string `json:"message"`
}

// GameOverPayload carries the terminal figures and the losing message.
type GameOverPayload struct {
	Satisfaction int    `json:"satisfaction"`
	Treasury     int    `json:"treasury"`
	Stars        int    `json:"stars"`
	Message      string `json:"message"`
}

// ErrorPayload is a client-local operational failure.
type ErrorPayload struct {
	Message string `json:"message"`
}
