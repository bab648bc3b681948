package storage

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 1

// Migrate ensures the SQLite schema exists and is at SchemaVersion.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS players (
			id                TEXT PRIMARY KEY,
			restaurant_name   TEXT NOT NULL,
			email             TEXT NOT NULL UNIQUE,
			password_hash     TEXT NOT NULL,
			satisfaction      INTEGER NOT NULL,
			treasury          INTEGER NOT NULL,
			stars             INTEGER NOT NULL,
			is_service_active INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id            TEXT PRIMARY KEY,
			player_id     TEXT NOT NULL REFERENCES players(id),
			type          TEXT NOT NULL,
			amount        INTEGER NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			recipe_id     TEXT,
			ingredient_id TEXT,
			created_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_player_created ON transactions(player_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_player_type ON transactions(player_id, type)`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL UNIQUE,
			category         TEXT NOT NULL DEFAULT 'other',
			cost             INTEGER NOT NULL DEFAULT 10,
			shelf_life_secs  INTEGER NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			created_at       TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id                   TEXT PRIMARY KEY,
			name                 TEXT NOT NULL,
			required_ingredients TEXT NOT NULL,
			description          TEXT NOT NULL DEFAULT '',
			difficulty           TEXT NOT NULL DEFAULT 'moyen',
			price                INTEGER NOT NULL DEFAULT 0,
			created_at           TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS discovered_recipes (
			player_id     TEXT NOT NULL REFERENCES players(id),
			recipe_id     TEXT NOT NULL REFERENCES recipes(id),
			discovered_at TEXT NOT NULL,
			PRIMARY KEY (player_id, recipe_id)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_lots (
			id            TEXT PRIMARY KEY,
			player_id     TEXT NOT NULL REFERENCES players(id),
			ingredient_id TEXT NOT NULL REFERENCES ingredients(id),
			quantity      INTEGER NOT NULL CHECK (quantity > 0),
			purchased_at  TEXT NOT NULL,
			expires_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_player_ingredient ON stock_lots(player_id, ingredient_id, purchased_at)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_expires ON stock_lots(expires_at)`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}
	return tx.Commit()
}

// Reset drops all application tables. Used by the admin CLI only.
func Reset(db *sql.DB) error {
	for _, table := range []string{
		"stock_lots", "discovered_recipes", "transactions",
		"recipes", "ingredients", "players", "schema_migrations",
	} {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
			return fmt.Errorf("reset: drop %s: %w", table, err)
		}
	}
	return nil
}
