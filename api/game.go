package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/inventory"
	"github.com/petitchef/petit-chef/game/ledger"
	"github.com/petitchef/petit-chef/telemetry"
)

// stockedIngredient is a catalog ingredient joined with the caller's current
// non-expired stock total.
type stockedIngredient struct {
	catalog.Ingredient
	Quantity int `json:"quantity"`
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.store.Ingredients()
	if err != nil {
		telemetry.Errorf("api: list ingredients: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	id := playerID(r)
	out := make([]stockedIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		quantity, err := s.stock.Available(id, ing.ID)
		if err != nil {
			telemetry.Errorf("api: stock total: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		out = append(out, stockedIngredient{Ingredient: ing, Quantity: quantity})
	}

	respondJSON(w, http.StatusOK, map[string]any{"ingredients": out})
}

// purchaseRequest uses a pointer quantity so an absent field defaults to 1
// while an explicit 0 is rejected.
type purchaseRequest struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     *int   `json:"quantity"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IngredientID == "" {
		respondError(w, http.StatusBadRequest, "ingredient_id is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := s.stock.Purchase(playerID(r), req.IngredientID, quantity)
	var funds *inventory.InsufficientFundsError
	switch {
	case errors.Is(err, inventory.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	case errors.Is(err, inventory.ErrIngredientNotFound):
		respondError(w, http.StatusNotFound, "Ingredient not found")
		return
	case errors.As(err, &funds):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"message":  "Insufficient treasury",
			"treasury": funds.Treasury,
			"cost":     funds.Cost,
		})
		return
	case err != nil:
		telemetry.Errorf("api: purchase: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.Recipes()
	if err != nil {
		telemetry.Errorf("api: list recipes: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

type experimentRequest struct {
	CombinedIngredients []string `json:"combined_ingredients"`
}

// handleExperiment runs the laboratory's matching step: the first recipe
// whose required ingredient names are all present in the combination is
// marked discovered.
func (s *Server) handleExperiment(w http.ResponseWriter, r *http.Request) {
	var req experimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.CombinedIngredients) == 0 {
		respondError(w, http.StatusBadRequest, "No ingredients provided")
		return
	}

	combined := make(map[string]bool, len(req.CombinedIngredients))
	for _, name := range req.CombinedIngredients {
		combined[strings.ToLower(name)] = true
	}

	recipes, err := s.store.Recipes()
	if err != nil {
		telemetry.Errorf("api: experiment recipes: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	for _, recipe := range recipes {
		allPresent := true
		for _, req := range recipe.RequiredIngredients {
			if !combined[strings.ToLower(req.Name)] {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}

		if err := s.store.MarkDiscovered(playerID(r), recipe.ID, time.Now()); err != nil {
			telemetry.Errorf("api: mark discovered: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("Recipe discovered! %q", recipe.Name),
			"recipe":  recipe,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": false,
		"message": "Invalid combination. Ingredients destroyed!",
	})
}

func (s *Server) handleDiscoveredRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.DiscoveredRecipes(playerID(r))
	if err != nil {
		telemetry.Errorf("api: discovered recipes: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

// transactionSummary aggregates a player's history for the reporting view.
type transactionSummary struct {
	Revenue   int `json:"revenue"`
	Spend     int `json:"spend"`
	Penalties int `json:"penalties"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.store.TransactionsByPlayer(playerID(r))
	if err != nil {
		telemetry.Errorf("api: transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var summary transactionSummary
	for _, tx := range transactions {
		switch tx.Type {
		case ledger.TxDishSale:
			summary.Revenue += tx.Amount
		case ledger.TxIngredientPurchase:
			summary.Spend += -tx.Amount
		case ledger.TxPenalty:
			summary.Penalties += -tx.Amount
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"summary":      summary,
	})
}

// handleServiceStatus returns the persisted figures plus whether a live
// session exists in this process. After a disconnect the persisted flag can
// be true while no session is live; the client is expected to send
// service:start again to resume.
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.Get(playerID(r))
	if err != nil {
		respondError(w, http.StatusNotFound, "Player not found")
		return
	}

	_, live := s.registry.Get(player.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"satisfaction":      player.Satisfaction,
		"treasury":          player.Treasury,
		"stars":             player.Stars,
		"is_service_active": player.IsServiceActive,
		"has_live_session":  live,
	})
}
