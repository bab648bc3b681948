// Package inventory is the perishable stock ledger. Stock is held as dated
// lots per player and ingredient; consumption is strictly FIFO over the
// non-expired lots, oldest purchase first.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/config"
	"github.com/petitchef/petit-chef/game/ledger"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// InsufficientFundsError reports a purchase the treasury cannot cover.
type InsufficientFundsError struct {
	Treasury int
	Cost     int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient treasury: have %d, need %d", e.Treasury, e.Cost)
}

// Lot is one purchase event of an ingredient. A lot's quantity never goes
// negative; a fully consumed lot is deleted, not retained.
type Lot struct {
	ID           string    `json:"id"`
	PlayerID     string    `json:"player_id"`
	IngredientID string    `json:"ingredient_id"`
	Quantity     int       `json:"quantity"`
	PurchasedAt  time.Time `json:"purchased_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LotStore is the persistence surface for stock lots.
type LotStore interface {
	LotsFor(playerID, ingredientID string) ([]Lot, error)
	AddLot(lot *Lot) error
	SetLotQuantity(id string, quantity int) error
	DeleteLot(id string) error
	DeleteExpiredLots(now time.Time) (int, error)
}

// CatalogStore resolves ingredient reference data.
type CatalogStore interface {
	IngredientByID(id string) (*catalog.Ingredient, error)
	IngredientByName(name string) (*catalog.Ingredient, error)
}

// Shortage describes one ingredient the player cannot cover.
type Shortage struct {
	Name      string `json:"name"`
	Needed    int    `json:"needed"`
	Available int    `json:"available"`
}

// Reservation is one entry of a consumption plan produced by a successful
// availability check.
type Reservation struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     int    `json:"quantity"`
}

// AvailabilityResult is the outcome of CheckAvailability.
type AvailabilityResult struct {
	OK        bool          `json:"ok"`
	Shortages []Shortage    `json:"shortages,omitempty"`
	Plan      []Reservation `json:"plan,omitempty"`
}

// PurchaseResult reports the state after a successful purchase.
type PurchaseResult struct {
	Treasury    int    `json:"treasury"`
	NewQuantity int    `json:"new_quantity"`
	Message     string `json:"message"`
}

// Ledger tracks perishable stock lots per player.
type Ledger struct {
	lots    LotStore
	catalog CatalogStore
	players *ledger.Ledger
	cfg     *config.Config
	now     func() time.Time
}

// New creates an inventory ledger. Purchases debit the player ledger.
func New(lots LotStore, cat CatalogStore, players *ledger.Ledger, cfg *config.Config) *Ledger {
	return &Ledger{lots: lots, catalog: cat, players: players, cfg: cfg, now: time.Now}
}

// CheckAvailability verifies that every required ingredient is covered by
// non-expired stock. Ingredients missing from the catalog always count as a
// shortage with zero availability. On success the returned plan can be passed
// to Consume.
func (l *Ledger) CheckAvailability(playerID string, required []catalog.RequiredIngredient) (*AvailabilityResult, error) {
	result := &AvailabilityResult{}
	now := l.now()

	for _, req := range required {
		ing, err := l.catalog.IngredientByName(req.Name)
		if errors.Is(err, catalog.ErrNotFound) {
			result.Shortages = append(result.Shortages, Shortage{Name: req.Name, Needed: req.Quantity, Available: 0})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve ingredient %q: %w", req.Name, err)
		}

		available, err := l.availableAt(playerID, ing.ID, now)
		if err != nil {
			return nil, err
		}

		if available < req.Quantity {
			result.Shortages = append(result.Shortages, Shortage{Name: req.Name, Needed: req.Quantity, Available: available})
		} else {
			result.Plan = append(result.Plan, Reservation{IngredientID: ing.ID, Quantity: req.Quantity})
		}
	}

	result.OK = len(result.Shortages) == 0
	return result, nil
}

// Consume executes a reservation plan, draining lots oldest-purchase-first.
// A lot fully drained is deleted; a partially drained lot keeps the remainder.
func (l *Ledger) Consume(playerID string, plan []Reservation) error {
	now := l.now()

	for _, res := range plan {
		lots, err := l.validLots(playerID, res.IngredientID, now)
		if err != nil {
			return err
		}

		remaining := res.Quantity
		for _, lot := range lots {
			if remaining <= 0 {
				break
			}
			if lot.Quantity <= remaining {
				remaining -= lot.Quantity
				if err := l.lots.DeleteLot(lot.ID); err != nil {
					return fmt.Errorf("delete drained lot: %w", err)
				}
			} else {
				if err := l.lots.SetLotQuantity(lot.ID, lot.Quantity-remaining); err != nil {
					return fmt.Errorf("reduce lot: %w", err)
				}
				remaining = 0
			}
		}
	}

	return nil
}

// Purchase buys quantity units of an ingredient, debits the treasury and
// appends a new stock lot expiring after the ingredient's shelf life.
func (l *Ledger) Purchase(playerID, ingredientID string, quantity int) (*PurchaseResult, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	ing, err := l.catalog.IngredientByID(ingredientID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, err
	}

	cost := ing.Cost
	if cost <= 0 {
		cost = 10
	}
	totalCost := cost * quantity

	player, err := l.players.Get(playerID)
	if err != nil {
		return nil, err
	}
	if player.Treasury < totalCost {
		return nil, &InsufficientFundsError{Treasury: player.Treasury, Cost: totalCost}
	}

	player, err = l.players.Debit(playerID, totalCost,
		fmt.Sprintf("Purchase of %dx %s", quantity, ing.Name), ing.ID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	shelfLife := ing.ShelfLife
	if shelfLife <= 0 {
		shelfLife = l.cfg.DefaultShelfLife
	}
	if err := l.lots.AddLot(&Lot{
		ID:           uuid.NewString(),
		PlayerID:     playerID,
		IngredientID: ing.ID,
		Quantity:     quantity,
		PurchasedAt:  now,
		ExpiresAt:    now.Add(shelfLife),
	}); err != nil {
		return nil, fmt.Errorf("add lot: %w", err)
	}

	total, err := l.availableAt(playerID, ing.ID, now)
	if err != nil {
		return nil, err
	}

	return &PurchaseResult{
		Treasury:    player.Treasury,
		NewQuantity: total,
		Message:     fmt.Sprintf("Bought %dx %s", quantity, ing.Name),
	}, nil
}

// Available returns the player's non-expired stock total for one ingredient.
func (l *Ledger) Available(playerID, ingredientID string) (int, error) {
	return l.availableAt(playerID, ingredientID, l.now())
}

// SweepExpired removes every lot past its expiry, across all players, and
// returns how many lots were dropped. Nothing expired is not an error.
func (l *Ledger) SweepExpired() (int, error) {
	return l.lots.DeleteExpiredLots(l.now())
}

// FormatShortage builds the player-facing message for an insufficient-stock
// serve attempt.
func FormatShortage(shortages []Shortage) string {
	details := make([]string, 0, len(shortages))
	for _, s := range shortages {
		details = append(details, fmt.Sprintf("%s (%d/%d)", s.Name, s.Available, s.Needed))
	}
	return fmt.Sprintf("Insufficient stock: %s. Buy ingredients at the Market!", strings.Join(details, ", "))
}

// validLots returns the player's non-expired lots for an ingredient, oldest
// purchase first. The store already orders by purchase time; the sort keeps
// the FIFO invariant independent of the backing implementation.
func (l *Ledger) validLots(playerID, ingredientID string, now time.Time) ([]Lot, error) {
	lots, err := l.lots.LotsFor(playerID, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("load lots: %w", err)
	}

	valid := lots[:0]
	for _, lot := range lots {
		if lot.ExpiresAt.After(now) {
			valid = append(valid, lot)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].PurchasedAt.Before(valid[j].PurchasedAt)
	})
	return valid, nil
}

func (l *Ledger) availableAt(playerID, ingredientID string, now time.Time) (int, error) {
	lots, err := l.validLots(playerID, ingredientID, now)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, lot := range lots {
		total += lot.Quantity
	}
	return total, nil
}
