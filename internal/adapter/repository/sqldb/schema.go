package sqldb

import (
	"context"
	"fmt"
)

// schema is portable across PostgreSQL and SQLite. Ids are uuid text,
// days are ISO dates, money is decimal text and timestamps are fixed width
// UTC text so lexical order matches chronological order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS bank_accounts (
		id          TEXT PRIMARY KEY,
		account_id  TEXT NOT NULL,
		name        TEXT NOT NULL,
		institution TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bank_accounts_account ON bank_accounts (account_id)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		kind       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_account ON categories (account_id)`,

	`CREATE TABLE IF NOT EXISTS import_batches (
		id                TEXT PRIMARY KEY,
		account_id        TEXT NOT NULL,
		file_name         TEXT NOT NULL,
		imported_at       TEXT NOT NULL,
		bank_account_id   TEXT NOT NULL,
		transaction_count INTEGER NOT NULL,
		source_uri        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_batches_account ON import_batches (account_id, imported_at)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id              TEXT PRIMARY KEY,
		account_id      TEXT NOT NULL,
		date            TEXT NOT NULL,
		description     TEXT NOT NULL,
		value           TEXT NOT NULL,
		kind            TEXT NOT NULL CHECK (kind IN ('CREDIT', 'DEBIT')),
		category_id     TEXT,
		bank_account_id TEXT NOT NULL,
		reconciled      BOOLEAN NOT NULL DEFAULT FALSE,
		import_id       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_date ON transactions (account_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_import ON transactions (import_id)`,

	`CREATE TABLE IF NOT EXISTS forecasts (
		id                  TEXT PRIMARY KEY,
		account_id          TEXT NOT NULL,
		date                TEXT NOT NULL,
		description         TEXT NOT NULL,
		value               TEXT NOT NULL,
		kind                TEXT NOT NULL CHECK (kind IN ('CREDIT', 'DEBIT')),
		category_id         TEXT,
		bank_account_id     TEXT NOT NULL,
		realized            BOOLEAN NOT NULL DEFAULT FALSE,
		installment_current INTEGER,
		installment_total   INTEGER,
		group_id            TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forecasts_account_date ON forecasts (account_id, date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_forecasts_group_installment ON forecasts (group_id, installment_current)`,
}

// Migrate creates the tables and indexes if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
