package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/petitchef/petit-chef/game/ledger"
)

// CreatePlayer inserts a new player row.
func (s *Store) CreatePlayer(p *ledger.Player) error {
	_, err := s.db.Exec(
		`INSERT INTO players (id, restaurant_name, email, password_hash, satisfaction, treasury, stars, is_service_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.RestaurantName, p.Email, p.PasswordHash,
		p.Satisfaction, p.Treasury, p.Stars, boolInt(p.IsServiceActive), fmtTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

// PlayerByID loads a player, returning ledger.ErrPlayerNotFound when absent.
func (s *Store) PlayerByID(id string) (*ledger.Player, error) {
	return s.scanPlayer(s.db.QueryRow(
		`SELECT id, restaurant_name, email, password_hash, satisfaction, treasury, stars, is_service_active, created_at
		 FROM players WHERE id = ?`, id))
}

// PlayerByEmail loads a player by email (stored lowercase).
func (s *Store) PlayerByEmail(email string) (*ledger.Player, error) {
	return s.scanPlayer(s.db.QueryRow(
		`SELECT id, restaurant_name, email, password_hash, satisfaction, treasury, stars, is_service_active, created_at
		 FROM players WHERE email = LOWER(?)`, email))
}

// SavePlayer persists the mutable fields of a player.
func (s *Store) SavePlayer(p *ledger.Player) error {
	res, err := s.db.Exec(
		`UPDATE players SET satisfaction = ?, treasury = ?, stars = ?, is_service_active = ? WHERE id = ?`,
		p.Satisfaction, p.Treasury, p.Stars, boolInt(p.IsServiceActive), p.ID,
	)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrPlayerNotFound
	}
	return nil
}

// AppendTransaction inserts an immutable audit record.
func (s *Store) AppendTransaction(tx *ledger.Transaction) error {
	_, err := s.db.Exec(
		`INSERT INTO transactions (id, player_id, type, amount, description, recipe_id, ingredient_id, created_at)
		 VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?)`,
		tx.ID, tx.PlayerID, string(tx.Type), tx.Amount, tx.Description,
		tx.RecipeID, tx.IngredientID, fmtTime(tx.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// TransactionsByPlayer returns a player's audit records, newest first.
func (s *Store) TransactionsByPlayer(playerID string) ([]ledger.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, player_id, type, amount, description, COALESCE(recipe_id, ''), COALESCE(ingredient_id, ''), created_at
		 FROM transactions WHERE player_id = ? ORDER BY created_at DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var tx ledger.Transaction
		var txType, createdAt string
		if err := rows.Scan(&tx.ID, &tx.PlayerID, &txType, &tx.Amount, &tx.Description,
			&tx.RecipeID, &tx.IngredientID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = ledger.TransactionType(txType)
		tx.CreatedAt = parseTime(createdAt)
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *Store) scanPlayer(row *sql.Row) (*ledger.Player, error) {
	var p ledger.Player
	var active int
	var createdAt string
	err := row.Scan(&p.ID, &p.RestaurantName, &p.Email, &p.PasswordHash,
		&p.Satisfaction, &p.Treasury, &p.Stars, &active, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan player: %w", err)
	}
	p.IsServiceActive = active != 0
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
