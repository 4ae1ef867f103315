package recorder

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// 1: run ledger
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		day         TEXT NOT NULL,
		trigger_type TEXT NOT NULL,
		status      TEXT NOT NULL,
		stage       TEXT NOT NULL DEFAULT '',
		threshold   REAL NOT NULL,
		row_count   INTEGER NOT NULL DEFAULT 0,
		below_hours INTEGER NOT NULL DEFAULT 0,
		intervals   INTEGER NOT NULL DEFAULT 0,
		error       TEXT NOT NULL DEFAULT '',
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_day ON runs(day, status);
	CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);`,
}

// runMigrations applies pending schema migrations in order.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}
	return nil
}
