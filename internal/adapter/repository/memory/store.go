package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// Store is an in-memory implementation of domain.LedgerStore.
// It is safe for concurrent use. Atomic units of work run against a copy of
// the data which replaces the live data only when the unit succeeds.
// Data is lost on restart; use the sqldb store for persistence.
type Store struct {
	mu   sync.RWMutex
	data *state
}

type state struct {
	transactions map[uuid.UUID]domain.Transaction
	forecasts    map[uuid.UUID]domain.Forecast
	imports      map[uuid.UUID]domain.ImportBatch
	bankAccounts map[uuid.UUID]domain.BankAccount
	categories   map[uuid.UUID]domain.Category
}

func newState() *state {
	return &state{
		transactions: make(map[uuid.UUID]domain.Transaction),
		forecasts:    make(map[uuid.UUID]domain.Forecast),
		imports:      make(map[uuid.UUID]domain.ImportBatch),
		bankAccounts: make(map[uuid.UUID]domain.BankAccount),
		categories:   make(map[uuid.UUID]domain.Category),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.transactions {
		c.transactions[k] = cloneTransaction(v)
	}
	for k, v := range s.forecasts {
		c.forecasts[k] = cloneForecast(v)
	}
	for k, v := range s.imports {
		c.imports[k] = v
	}
	for k, v := range s.bankAccounts {
		c.bankAccounts[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	return c
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{data: newState()}
}

// view binds repositories either to the live data (tx == nil, locking on
// every call) or to the private copy of an atomic unit (already locked).
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.data)
}

func (v view) write(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

func (v view) Transactions() domain.TransactionRepository { return transactionRepository{v} }
func (v view) Forecasts() domain.ForecastRepository { return forecastRepository{v} }
func (v view) Imports() domain.ImportBatchRepository { return importBatchRepository{v} }
func (v view) BankAccounts() domain.BankAccountRepository { return bankAccountRepository{v} }
func (v view) Categories() domain.CategoryRepository { return categoryRepository{v} }

func (s *Store) live() view { return view{store: s} }

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

// Atomic implements domain.LedgerStore.
// Units of work are serialized with every other store access.
func (s *Store) Atomic(ctx context.Context, fn func(domain.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(view{store: s, tx: working}); err != nil {
		return err
	}

	s.data = working
	return nil
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	tx.CategoryID = cloneUUID(tx.CategoryID)
	tx.ImportID = cloneUUID(tx.ImportID)
	return tx
}

func cloneForecast(f domain.Forecast) domain.Forecast {
	f.CategoryID = cloneUUID(f.CategoryID)
	f.GroupID = cloneUUID(f.GroupID)
	f.InstallmentCurrent = cloneInt(f.InstallmentCurrent)
	f.InstallmentTotal = cloneInt(f.InstallmentTotal)
	return f
}
