package memory

import (
	"context"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	v view
}

// Create inserts a new transaction
func (r transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.v.write(func(s *state) error {
		if _, exists := s.transactions[tx.ID]; exists {
			return domain.Conflictf("transaction %s already exists", tx.ID)
		}
		s.transactions[tx.ID] = cloneTransaction(*tx)
		return nil
	})
}

// GetByID retrieves a transaction owned by the account
func (r transactionRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.v.read(func(s *state) error {
		tx, ok := s.transactions[id]
		if !ok || tx.AccountID != accountID {
			return domain.NotFoundf("transaction %s", id)
		}
		c := cloneTransaction(tx)
		out = &c
		return nil
	})
	return out, err
}

// Update overwrites an existing transaction
func (r transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	return r.v.write(func(s *state) error {
		existing, ok := s.transactions[tx.ID]
		if !ok || existing.AccountID != tx.AccountID {
			return domain.NotFoundf("transaction %s", tx.ID)
		}
		s.transactions[tx.ID] = cloneTransaction(*tx)
		return nil
	})
}

// Delete removes a transaction owned by the account
func (r transactionRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return r.v.write(func(s *state) error {
		tx, ok := s.transactions[id]
		if !ok || tx.AccountID != accountID {
			return domain.NotFoundf("transaction %s", id)
		}
		delete(s.transactions, id)
		return nil
	})
}

// DeleteByImport removes every transaction produced by an import batch
func (r transactionRepository) DeleteByImport(ctx context.Context, accountID, importID uuid.UUID) (int, error) {
	deleted := 0
	err := r.v.write(func(s *state) error {
		for id, tx := range s.transactions {
			if tx.AccountID == accountID && tx.ImportID != nil && *tx.ImportID == importID {
				delete(s.transactions, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

// List returns matching transactions ordered by date then id
func (r transactionRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	err := r.v.read(func(s *state) error {
		for _, tx := range s.transactions {
			if tx.AccountID != accountID || !inRange(tx.Date, filter.From, filter.To) {
				continue
			}
			if filter.BankAccountID != nil && tx.BankAccountID != *filter.BankAccountID {
				continue
			}
			if filter.ReconciledOnly && !tx.Reconciled {
				continue
			}
			c := cloneTransaction(tx)
			out = append(out, &c)
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		return byDateThenID(out[i].Date, out[i].ID, out[j].Date, out[j].ID)
	})
	return out, err
}

// forecastRepository implements domain.ForecastRepository
type forecastRepository struct {
	v view
}

// Create inserts a new forecast
func (r forecastRepository) Create(ctx context.Context, f *domain.Forecast) error {
	return r.v.write(func(s *state) error {
		if _, exists := s.forecasts[f.ID]; exists {
			return domain.Conflictf("forecast %s already exists", f.ID)
		}
		s.forecasts[f.ID] = cloneForecast(*f)
		return nil
	})
}

// GetByID retrieves a forecast owned by the account
func (r forecastRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Forecast, error) {
	var out *domain.Forecast
	err := r.v.read(func(s *state) error {
		f, ok := s.forecasts[id]
		if !ok || f.AccountID != accountID {
			return domain.NotFoundf("forecast %s", id)
		}
		c := cloneForecast(f)
		out = &c
		return nil
	})
	return out, err
}

// MarkRealized flips the realized flag, reporting whether it changed
func (r forecastRepository) MarkRealized(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	changed := false
	err := r.v.write(func(s *state) error {
		f, ok := s.forecasts[id]
		if !ok || f.AccountID != accountID {
			return domain.NotFoundf("forecast %s", id)
		}
		if f.Realized {
			return nil
		}
		f.Realized = true
		s.forecasts[id] = f
		changed = true
		return nil
	})
	return changed, err
}

// Delete removes one forecast owned by the account
func (r forecastRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return r.v.write(func(s *state) error {
		f, ok := s.forecasts[id]
		if !ok || f.AccountID != accountID {
			return domain.NotFoundf("forecast %s", id)
		}
		delete(s.forecasts, id)
		return nil
	})
}

// DeleteGroup removes group members, optionally only those dated on or after from
func (r forecastRepository) DeleteGroup(ctx context.Context, accountID, groupID uuid.UUID, from *civil.Date) (int, error) {
	deleted := 0
	err := r.v.write(func(s *state) error {
		for id, f := range s.forecasts {
			if f.AccountID != accountID || f.GroupID == nil || *f.GroupID != groupID {
				continue
			}
			if from != nil && f.Date.Before(*from) {
				continue
			}
			delete(s.forecasts, id)
			deleted++
		}
		return nil
	})
	return deleted, err
}

// ListGroup returns group members ordered by installment
func (r forecastRepository) ListGroup(ctx context.Context, accountID, groupID uuid.UUID) ([]*domain.Forecast, error) {
	var out []*domain.Forecast
	err := r.v.read(func(s *state) error {
		for _, f := range s.forecasts {
			if f.AccountID == accountID && f.GroupID != nil && *f.GroupID == groupID {
				c := cloneForecast(f)
				out = append(out, &c)
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		return installment(out[i]) < installment(out[j])
	})
	return out, err
}

// List returns matching forecasts ordered by date then id
func (r forecastRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.ForecastFilter) ([]*domain.Forecast, error) {
	var out []*domain.Forecast
	err := r.v.read(func(s *state) error {
		for _, f := range s.forecasts {
			if f.AccountID != accountID || !inRange(f.Date, filter.From, filter.To) {
				continue
			}
			if f.Realized && !filter.IncludeRealized {
				continue
			}
			c := cloneForecast(f)
			out = append(out, &c)
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		return byDateThenID(out[i].Date, out[i].ID, out[j].Date, out[j].ID)
	})
	return out, err
}

// importBatchRepository implements domain.ImportBatchRepository
type importBatchRepository struct {
	v view
}

// Create inserts a new import batch
func (r importBatchRepository) Create(ctx context.Context, batch *domain.ImportBatch) error {
	return r.v.write(func(s *state) error {
		if _, exists := s.imports[batch.ID]; exists {
			return domain.Conflictf("import batch %s already exists", batch.ID)
		}
		s.imports[batch.ID] = *batch
		return nil
	})
}

// GetByID retrieves an import batch owned by the account
func (r importBatchRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.ImportBatch, error) {
	var out *domain.ImportBatch
	err := r.v.read(func(s *state) error {
		b, ok := s.imports[id]
		if !ok || b.AccountID != accountID {
			return domain.NotFoundf("import batch %s", id)
		}
		out = &b
		return nil
	})
	return out, err
}

// List returns import batches, most recent first
func (r importBatchRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.ImportBatch, error) {
	var out []*domain.ImportBatch
	err := r.v.read(func(s *state) error {
		for _, b := range s.imports {
			if b.AccountID == accountID {
				c := b
				out = append(out, &c)
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].ImportedAt.After(out[j].ImportedAt)
	})
	return out, err
}

// Delete removes an import batch owned by the account
func (r importBatchRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return r.v.write(func(s *state) error {
		b, ok := s.imports[id]
		if !ok || b.AccountID != accountID {
			return domain.NotFoundf("import batch %s", id)
		}
		delete(s.imports, id)
		return nil
	})
}

// bankAccountRepository implements domain.BankAccountRepository
type bankAccountRepository struct {
	v view
}

func (r bankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	return r.v.write(func(s *state) error {
		s.bankAccounts[account.ID] = *account
		return nil
	})
}

func (r bankAccountRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.BankAccount, error) {
	var out *domain.BankAccount
	err := r.v.read(func(s *state) error {
		b, ok := s.bankAccounts[id]
		if !ok || b.AccountID != accountID {
			return domain.NotFoundf("bank account %s", id)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r bankAccountRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.BankAccount, error) {
	var out []*domain.BankAccount
	err := r.v.read(func(s *state) error {
		for _, b := range s.bankAccounts {
			if b.AccountID == accountID {
				c := b
				out = append(out, &c)
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	v view
}

func (r categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.v.write(func(s *state) error {
		s.categories[category.ID] = *category
		return nil
	})
}

func (r categoryRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Category, error) {
	var out *domain.Category
	err := r.v.read(func(s *state) error {
		c, ok := s.categories[id]
		if !ok || c.AccountID != accountID {
			return domain.NotFoundf("category %s", id)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r categoryRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.Category, error) {
	var out []*domain.Category
	err := r.v.read(func(s *state) error {
		for _, c := range s.categories {
			if c.AccountID == accountID {
				cc := c
				out = append(out, &cc)
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func inRange(d, from, to civil.Date) bool {
	if !domain.IsZeroDate(from) && d.Before(from) {
		return false
	}
	if !domain.IsZeroDate(to) && d.After(to) {
		return false
	}
	return true
}

func byDateThenID(di civil.Date, idi uuid.UUID, dj civil.Date, idj uuid.UUID) bool {
	if di != dj {
		return di.Before(dj)
	}
	return idi.String() < idj.String()
}

func installment(f *domain.Forecast) int {
	if f.InstallmentCurrent == nil {
		return 0
	}
	return *f.InstallmentCurrent
}
