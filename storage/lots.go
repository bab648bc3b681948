package storage

import (
	"fmt"
	"time"

	"github.com/petitchef/petit-chef/game/inventory"
)

// LotsFor returns a player's stock lots for one ingredient, oldest purchase
// first. Expired lots are included; the inventory ledger filters them.
func (s *Store) LotsFor(playerID, ingredientID string) ([]inventory.Lot, error) {
	rows, err := s.db.Query(
		`SELECT id, player_id, ingredient_id, quantity, purchased_at, expires_at
		 FROM stock_lots WHERE player_id = ? AND ingredient_id = ?
		 ORDER BY purchased_at ASC`, playerID, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var out []inventory.Lot
	for rows.Next() {
		var lot inventory.Lot
		var purchasedAt, expiresAt string
		if err := rows.Scan(&lot.ID, &lot.PlayerID, &lot.IngredientID, &lot.Quantity, &purchasedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lot.PurchasedAt = parseTime(purchasedAt)
		lot.ExpiresAt = parseTime(expiresAt)
		out = append(out, lot)
	}
	return out, rows.Err()
}

// AddLot appends a new stock lot.
func (s *Store) AddLot(lot *inventory.Lot) error {
	_, err := s.db.Exec(
		`INSERT INTO stock_lots (id, player_id, ingredient_id, quantity, purchased_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		lot.ID, lot.PlayerID, lot.IngredientID, lot.Quantity, fmtTime(lot.PurchasedAt), fmtTime(lot.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("add lot: %w", err)
	}
	return nil
}

// SetLotQuantity updates a partially consumed lot.
func (s *Store) SetLotQuantity(id string, quantity int) error {
	if _, err := s.db.Exec(`UPDATE stock_lots SET quantity = ? WHERE id = ?`, quantity, id); err != nil {
		return fmt.Errorf("set lot quantity: %w", err)
	}
	return nil
}

// DeleteLot removes a fully consumed lot.
func (s *Store) DeleteLot(id string) error {
	if _, err := s.db.Exec(`DELETE FROM stock_lots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

// DeleteExpiredLots removes every lot past its expiry across all players and
// returns the number of lots dropped.
func (s *Store) DeleteExpiredLots(now time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM stock_lots WHERE expires_at <= ?`, fmtTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired lots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired lots affected: %w", err)
	}
	return int(n), nil
}
