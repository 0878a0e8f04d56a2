package ledger

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// RecordInput holds the fields of a directly entered transaction
type RecordInput struct {
	Date          civil.Date // Zero means today
	Description   string
	Value         decimal.Decimal
	Kind          domain.MovementKind
	BankAccountID uuid.UUID
	CategoryID    *uuid.UUID
	Reconciled    bool
}

// UpdateInput carries the editable fields of a transaction. Nil fields are left unchanged.
type UpdateInput struct {
	Date          *civil.Date
	Description   *string
	Value         *decimal.Decimal
	Kind          *domain.MovementKind
	BankAccountID *uuid.UUID
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// LedgerService handles direct transaction entry and maintenance
type LedgerService struct {
	Store domain.LedgerStore
	Clock domain.Clock
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(store domain.LedgerStore, clock domain.Clock) *LedgerService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &LedgerService{
		Store: store,
		Clock: clock,
	}
}

// RecordTransaction posts a transaction entered by hand
func (s *LedgerService) RecordTransaction(ctx context.Context, accountID uuid.UUID, input RecordInput) (uuid.UUID, error) {
	date := input.Date
	if domain.IsZeroDate(date) {
		date = domain.Today(s.Clock)
	}

	tx := &domain.Transaction{
		ID:            uuid.New(),
		AccountID:     accountID,
		Date:          date,
		Description:   strings.TrimSpace(input.Description),
		Value:         input.Value,
		Kind:          input.Kind,
		CategoryID:    input.CategoryID,
		BankAccountID: input.BankAccountID,
		Reconciled:    input.Reconciled,
	}
	if err := tx.Validate(); err != nil {
		return uuid.Nil, err
	}

	err := s.Store.Atomic(ctx, func(l domain.Ledger) error {
		if err := checkReferences(ctx, l, accountID, tx); err != nil {
			return err
		}
		return l.Transactions().Create(ctx, tx)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return tx.ID, nil
}

// UpdateTransaction edits a transaction in place
func (s *LedgerService) UpdateTransaction(ctx context.Context, accountID, id uuid.UUID, input UpdateInput) (*domain.Transaction, error) {
	var updated *domain.Transaction
	err := s.Store.Atomic(ctx, func(l domain.Ledger) error {
		tx, err := l.Transactions().GetByID(ctx, accountID, id)
		if err != nil {
			return err
		}

		if input.Date != nil {
			tx.Date = *input.Date
		}
		if input.Description != nil {
			tx.Description = strings.TrimSpace(*input.Description)
		}
		if input.Value != nil {
			tx.Value = *input.Value
		}
		if input.Kind != nil {
			tx.Kind = *input.Kind
		}
		if input.BankAccountID != nil {
			tx.BankAccountID = *input.BankAccountID
		}
		if input.ClearCategory {
			tx.CategoryID = nil
		} else if input.CategoryID != nil {
			categoryID := *input.CategoryID
			tx.CategoryID = &categoryID
		}

		if err := tx.Validate(); err != nil {
			return err
		}
		if err := checkReferences(ctx, l, accountID, tx); err != nil {
			return err
		}
		if err := l.Transactions().Update(ctx, tx); err != nil {
			return err
		}
		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetReconciled toggles the reconciled flag
func (s *LedgerService) SetReconciled(ctx context.Context, accountID, id uuid.UUID, reconciled bool) error {
	return s.Store.Atomic(ctx, func(l domain.Ledger) error {
		tx, err := l.Transactions().GetByID(ctx, accountID, id)
		if err != nil {
			return err
		}
		if tx.Reconciled == reconciled {
			return nil
		}
		tx.Reconciled = reconciled
		return l.Transactions().Update(ctx, tx)
	})
}

// DeleteTransaction removes one transaction
func (s *LedgerService) DeleteTransaction(ctx context.Context, accountID, id uuid.UUID) error {
	return s.Store.Transactions().Delete(ctx, accountID, id)
}

// GetTransaction retrieves one transaction
func (s *LedgerService) GetTransaction(ctx context.Context, accountID, id uuid.UUID) (*domain.Transaction, error) {
	return s.Store.Transactions().GetByID(ctx, accountID, id)
}

// ListTransactions returns the account's transactions ordered by date
func (s *LedgerService) ListTransactions(ctx context.Context, accountID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if !domain.IsZeroDate(filter.From) && !domain.IsZeroDate(filter.To) && filter.From.After(filter.To) {
		return nil, domain.InvalidInputf("range start %s is after range end %s", filter.From, filter.To)
	}
	return s.Store.Transactions().List(ctx, accountID, filter)
}

func checkReferences(ctx context.Context, l domain.Ledger, accountID uuid.UUID, tx *domain.Transaction) error {
	if _, err := l.BankAccounts().GetByID(ctx, accountID, tx.BankAccountID); err != nil {
		return err
	}
	if tx.CategoryID != nil {
		if _, err := l.Categories().GetByID(ctx, accountID, *tx.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

// CreateBankAccount registers a bank account for the account
func (s *LedgerService) CreateBankAccount(ctx context.Context, accountID uuid.UUID, name, institution string) (*domain.BankAccount, error) {
	account := &domain.BankAccount{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        strings.TrimSpace(name),
		Institution: strings.TrimSpace(institution),
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.Store.BankAccounts().Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListBankAccounts returns the account's bank accounts
func (s *LedgerService) ListBankAccounts(ctx context.Context, accountID uuid.UUID) ([]*domain.BankAccount, error) {
	return s.Store.BankAccounts().List(ctx, accountID)
}

// CreateCategory registers a category for the account. Kind may be empty.
func (s *LedgerService) CreateCategory(ctx context.Context, accountID uuid.UUID, name string, kind domain.MovementKind) (*domain.Category, error) {
	category := &domain.Category{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      strings.TrimSpace(name),
		Kind:      kind,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.Store.Categories().Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the account's categories
func (s *LedgerService) ListCategories(ctx context.Context, accountID uuid.UUID) ([]*domain.Category, error) {
	return s.Store.Categories().List(ctx, accountID)
}
