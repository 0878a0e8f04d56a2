package sqldb

import (
	"context"
	"fmt"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// Store implements domain.LedgerStore on a SQL database
type Store struct {
	db *DB
}

// NewStore creates a store over an open database
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// ledger binds the repositories to one connection or transaction
type ledger struct {
	c conn
}

func (l ledger) Transactions() domain.TransactionRepository { return transactionRepository{c: l.c} }
func (l ledger) Forecasts() domain.ForecastRepository       { return forecastRepository{c: l.c} }
func (l ledger) Imports() domain.ImportBatchRepository      { return importBatchRepository{c: l.c} }
func (l ledger) BankAccounts() domain.BankAccountRepository { return bankAccountRepository{c: l.c} }
func (l ledger) Categories() domain.CategoryRepository      { return categoryRepository{c: l.c} }

func (s *Store) live() ledger {
	return ledger{c: conn{q: s.db.DB, dialect: s.db.Dialect}}
}

// Transactions returns the transaction repository
func (s *Store) Transactions() domain.TransactionRepository { return s.live().Transactions() }

// Forecasts returns the forecast repository
func (s *Store) Forecasts() domain.ForecastRepository { return s.live().Forecasts() }

// Imports returns the import batch repository
func (s *Store) Imports() domain.ImportBatchRepository { return s.live().Imports() }

// BankAccounts returns the bank account repository
func (s *Store) BankAccounts() domain.BankAccountRepository { return s.live().BankAccounts() }

// Categories returns the category repository
func (s *Store) Categories() domain.CategoryRepository { return s.live().Categories() }

// Atomic runs fn inside a database transaction
func (s *Store) Atomic(ctx context.Context, fn func(domain.Ledger) error) error {
	// Start a database transaction
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := fn(ledger{c: conn{q: dbTx, dialect: s.db.Dialect}}); err != nil {
		return err
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
