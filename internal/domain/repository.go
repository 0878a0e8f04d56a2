package domain

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// TransactionFilter narrows TransactionRepository.List. Zero dates are unbounded.
type TransactionFilter struct {
	From           civil.Date // inclusive
	To             civil.Date // inclusive
	BankAccountID  *uuid.UUID
	ReconciledOnly bool
}

// ForecastFilter narrows ForecastRepository.List. Zero dates are unbounded.
type ForecastFilter struct {
	From            civil.Date
	To              civil.Date
	IncludeRealized bool
}

// TransactionRepository defines the interface for transaction persistence operations.
// Every method is scoped to the owning account.
type TransactionRepository interface {
	// Create inserts a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction, ErrNotFound if absent or owned by another account
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*Transaction, error)

	// Update overwrites the mutable fields of an existing transaction
	Update(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction, ErrNotFound if nothing was removed
	Delete(ctx context.Context, accountID, id uuid.UUID) error

	// DeleteByImport removes every transaction referencing the import batch
	DeleteByImport(ctx context.Context, accountID, importID uuid.UUID) (int, error)

	// List returns matching transactions ordered by date then id
	List(ctx context.Context, accountID uuid.UUID, filter TransactionFilter) ([]*Transaction, error)
}

// ForecastRepository defines the interface for forecast persistence operations
type ForecastRepository interface {
	// Create inserts a new forecast
	Create(ctx context.Context, f *Forecast) error

	// GetByID retrieves a forecast, ErrNotFound if absent or owned by another account
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*Forecast, error)

	// MarkRealized flips realized from false to true.
	// Returns false when the forecast was already realized.
	MarkRealized(ctx context.Context, accountID, id uuid.UUID) (bool, error)

	// Delete removes one forecast, ErrNotFound if nothing was removed
	Delete(ctx context.Context, accountID, id uuid.UUID) error

	// DeleteGroup removes members of a recurrence group.
	// If from is nil every member is removed, otherwise members dated on or after from.
	DeleteGroup(ctx context.Context, accountID, groupID uuid.UUID, from *civil.Date) (int, error)

	// ListGroup returns the members of a recurrence group ordered by installment
	ListGroup(ctx context.Context, accountID, groupID uuid.UUID) ([]*Forecast, error)

	// List returns matching forecasts ordered by date then id
	List(ctx context.Context, accountID uuid.UUID, filter ForecastFilter) ([]*Forecast, error)
}

// ImportBatchRepository defines the interface for import batch persistence operations
type ImportBatchRepository interface {
	Create(ctx context.Context, batch *ImportBatch) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*ImportBatch, error)

	// List returns the account's batches, most recent first
	List(ctx context.Context, accountID uuid.UUID) ([]*ImportBatch, error)

	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

// BankAccountRepository exposes the bank account reference table
type BankAccountRepository interface {
	Create(ctx context.Context, account *BankAccount) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*BankAccount, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*BankAccount, error)
}

// CategoryRepository exposes the category reference table
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*Category, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*Category, error)
}

// Ledger groups the repositories of one store
type Ledger interface {
	Transactions() TransactionRepository
	Forecasts() ForecastRepository
	Imports() ImportBatchRepository
	BankAccounts() BankAccountRepository
	Categories() CategoryRepository
}

// LedgerStore is a Ledger that can run a unit of work atomically
type LedgerStore interface {
	Ledger

	// Atomic runs fn against a Ledger bound to a single store transaction.
	// Every write made through it is committed if fn returns nil and
	// discarded otherwise.
	Atomic(ctx context.Context, fn func(Ledger) error) error
}
