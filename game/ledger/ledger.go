// Package ledger owns persistent player state. Every mutation of
// satisfaction, treasury or stars goes through the Ledger, which also appends
// the matching Transaction audit record.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petitchef/petit-chef/game/config"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerStore is the persistence surface the ledger needs.
type PlayerStore interface {
	PlayerByID(id string) (*Player, error)
	SavePlayer(p *Player) error
	AppendTransaction(tx *Transaction) error
}

// Ledger applies game-state mutations to players and records transactions.
type Ledger struct {
	store PlayerStore
	cfg   *config.Config
	now   func() time.Time
}

// New creates a Ledger backed by the given store.
func New(store PlayerStore, cfg *config.Config) *Ledger {
	return &Ledger{store: store, cfg: cfg, now: time.Now}
}

// Get returns the current persistent state of a player.
func (l *Ledger) Get(playerID string) (*Player, error) {
	return l.store.PlayerByID(playerID)
}

// ApplyPenalty charges the standard penalty for an expired or rejected order
// and returns the updated player.
func (l *Ledger) ApplyPenalty(playerID, description string) (*Player, error) {
	return l.penalize(playerID, description, l.cfg.PenaltySatisfaction, l.cfg.PenaltyGold, false)
}

// ApplyVIPPenalty charges the harsher VIP penalty, which also costs a star
// (floored at zero).
func (l *Ledger) ApplyVIPPenalty(playerID, description string) (*Player, error) {
	return l.penalize(playerID, description, l.cfg.VIPPenaltySatisfaction, l.cfg.VIPPenaltyGold, true)
}

func (l *Ledger) penalize(playerID, description string, satisfaction, gold int, loseStar bool) (*Player, error) {
	p, err := l.store.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}

	p.Satisfaction -= satisfaction
	p.Treasury -= gold
	if loseStar && p.Stars > 0 {
		p.Stars--
	}
	if err := l.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}

	if err := l.store.AppendTransaction(&Transaction{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		Type:        TxPenalty,
		Amount:      -gold,
		Description: description,
		CreatedAt:   l.now(),
	}); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	return p, nil
}

// RecordSale credits a served order and bumps satisfaction by the standard
// reward.
func (l *Ledger) RecordSale(playerID, recipeName, recipeID string, revenue int) (*Player, error) {
	return l.sell(playerID, recipeID, revenue, l.cfg.SatisfactionReward, fmt.Sprintf("Sale of %s", recipeName))
}

// RecordVIPSale credits a served VIP order with the larger satisfaction bonus.
func (l *Ledger) RecordVIPSale(playerID, recipeName, recipeID string, revenue int) (*Player, error) {
	return l.sell(playerID, recipeID, revenue, l.cfg.VIPSatisfactionReward, fmt.Sprintf("VIP sale of %s", recipeName))
}

func (l *Ledger) sell(playerID, recipeID string, revenue, satisfaction int, description string) (*Player, error) {
	p, err := l.store.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}

	p.Satisfaction += satisfaction
	p.Treasury += revenue
	if err := l.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}

	if err := l.store.AppendTransaction(&Transaction{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		Type:        TxDishSale,
		Amount:      revenue,
		Description: description,
		RecipeID:    recipeID,
		CreatedAt:   l.now(),
	}); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	return p, nil
}

// Debit removes gold from the treasury for an ingredient purchase and records
// the transaction. The caller is responsible for having checked funds.
func (l *Ledger) Debit(playerID string, amount int, description, ingredientID string) (*Player, error) {
	p, err := l.store.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}

	p.Treasury -= amount
	if err := l.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}

	if err := l.store.AppendTransaction(&Transaction{
		ID:           uuid.NewString(),
		PlayerID:     playerID,
		Type:         TxIngredientPurchase,
		Amount:       -amount,
		Description:  description,
		IngredientID: ingredientID,
		CreatedAt:    l.now(),
	}); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	return p, nil
}

// ActivateService resets satisfaction to its initial value and flags the
// player as actively serving. Stars and treasury carry over between services.
func (l *Ledger) ActivateService(playerID string) (*Player, error) {
	p, err := l.store.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}

	p.Satisfaction = l.cfg.InitialSatisfaction
	p.IsServiceActive = true
	if err := l.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return p, nil
}

// DeactivateService clears the persisted active flag.
func (l *Ledger) DeactivateService(playerID string) error {
	p, err := l.store.PlayerByID(playerID)
	if err != nil {
		return err
	}
	p.IsServiceActive = false
	return l.store.SavePlayer(p)
}

// IsServiceActive reports whether the player's persisted active flag is set.
func (l *Ledger) IsServiceActive(playerID string) (bool, error) {
	p, err := l.store.PlayerByID(playerID)
	if err != nil {
		return false, err
	}
	return p.IsServiceActive, nil
}

// IsGameOver reports whether the player has crossed any losing threshold.
// Zero satisfaction or treasury is still in play; zero stars is not.
func IsGameOver(p *Player) bool {
	return p.Satisfaction < 0 || p.Treasury < 0 || p.Stars <= 0
}

// GameOverMessage picks the message for the threshold that was crossed.
// Losing all stars takes precedence over going broke, which takes precedence
// over losing the customers.
func GameOverMessage(p *Player) string {
	if p.Stars <= 0 {
		return "Game over! You lost all your stars. The critic struck you from the guide."
	}
	if p.Treasury < 0 {
		return "Game over! Your treasury dropped below zero."
	}
	return "Game over! Customer satisfaction dropped below zero."
}
