package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// bankAccountRepository implements domain.BankAccountRepository
type bankAccountRepository struct {
	c conn
}

// Create inserts a new bank account
func (r bankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, account_id, name, institution)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query, account.ID, account.AccountID, account.Name, account.Institution)
	if err != nil {
		return fmt.Errorf("failed to create bank account: %w", err)
	}

	return nil
}

// GetByID retrieves a bank account owned by the account
func (r bankAccountRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.BankAccount, error) {
	query := `
		SELECT id, account_id, name, institution
		FROM bank_accounts
		WHERE id = ? AND account_id = ?
	`

	var account domain.BankAccount
	err := r.c.queryRow(ctx, query, id, accountID).Scan(
		&account.ID,
		&account.AccountID,
		&account.Name,
		&account.Institution,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("bank account %s", id)
		}
		return nil, fmt.Errorf("failed to get bank account by ID: %w", err)
	}

	return &account, nil
}

// List retrieves the account's bank accounts ordered by name
func (r bankAccountRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.BankAccount, error) {
	query := `
		SELECT id, account_id, name, institution
		FROM bank_accounts
		WHERE account_id = ?
		ORDER BY name, id
	`

	rows, err := r.c.query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.BankAccount, 0)
	for rows.Next() {
		var account domain.BankAccount
		if err := rows.Scan(&account.ID, &account.AccountID, &account.Name, &account.Institution); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank accounts: %w", err)
	}

	return accounts, nil
}

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	c conn
}

// Create inserts a new category
func (r categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, account_id, name, kind)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query, category.ID, category.AccountID, category.Name, string(category.Kind))
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category owned by the account
func (r categoryRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, account_id, name, kind
		FROM categories
		WHERE id = ? AND account_id = ?
	`

	var category domain.Category
	var kind string
	err := r.c.queryRow(ctx, query, id, accountID).Scan(
		&category.ID,
		&category.AccountID,
		&category.Name,
		&kind,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("category %s", id)
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	category.Kind = domain.MovementKind(kind)

	return &category, nil
}

// List retrieves the account's categories ordered by name
func (r categoryRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.Category, error) {
	query := `
		SELECT id, account_id, name, kind
		FROM categories
		WHERE account_id = ?
		ORDER BY name, id
	`

	rows, err := r.c.query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		var kind string
		if err := rows.Scan(&category.ID, &category.AccountID, &category.Name, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		category.Kind = domain.MovementKind(kind)
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
