package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

const transactionColumns = `id, account_id, date, description, value, kind, category_id, bank_account_id, reconciled, import_id`

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	c conn
}

// Create inserts a new transaction
func (r transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Date.String(),
		tx.Description,
		tx.Value.String(),
		string(tx.Kind),
		nullableUUID(tx.CategoryID),
		tx.BankAccountID,
		tx.Reconciled,
		nullableUUID(tx.ImportID),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction owned by the account
func (r transactionRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND account_id = ?`

	tx, err := scanTransaction(r.c.queryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("transaction %s", id)
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	return tx, nil
}

// Update overwrites the mutable fields of a transaction
func (r transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET date = ?, description = ?, value = ?, kind = ?, category_id = ?, bank_account_id = ?, reconciled = ?
		WHERE id = ? AND account_id = ?
	`

	res, err := r.c.exec(ctx, query,
		tx.Date.String(),
		tx.Description,
		tx.Value.String(),
		string(tx.Kind),
		nullableUUID(tx.CategoryID),
		tx.BankAccountID,
		tx.Reconciled,
		tx.ID,
		tx.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("transaction %s", tx.ID)
	}
	return nil
}

// Delete removes a transaction owned by the account
func (r transactionRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := r.c.exec(ctx, `DELETE FROM transactions WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("transaction %s", id)
	}
	return nil
}

// DeleteByImport removes every transaction produced by an import batch
func (r transactionRepository) DeleteByImport(ctx context.Context, accountID, importID uuid.UUID) (int, error) {
	res, err := r.c.exec(ctx, `DELETE FROM transactions WHERE import_id = ? AND account_id = ?`, importID.String(), accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete imported transactions: %w", err)
	}
	return affected(res)
}

// List returns matching transactions ordered by date then id
func (r transactionRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	where := []string{"account_id = ?"}
	args := []any{accountID}

	if !domain.IsZeroDate(filter.From) {
		where = append(where, "date >= ?")
		args = append(args, filter.From.String())
	}
	if !domain.IsZeroDate(filter.To) {
		where = append(where, "date <= ?")
		args = append(args, filter.To.String())
	}
	if filter.BankAccountID != nil {
		where = append(where, "bank_account_id = ?")
		args = append(args, filter.BankAccountID.String())
	}
	if filter.ReconciledOnly {
		where = append(where, "reconciled = ?")
		args = append(args, true)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date, id`

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var dateStr, valueStr, kind string
	var categoryID, importID sql.NullString

	err := row.Scan(
		&tx.ID,
		&tx.AccountID,
		&dateStr,
		&tx.Description,
		&valueStr,
		&kind,
		&categoryID,
		&tx.BankAccountID,
		&tx.Reconciled,
		&importID,
	)
	if err != nil {
		return nil, err
	}

	if tx.Date, err = parseDate(dateStr); err != nil {
		return nil, err
	}
	if tx.Value, err = parseDecimal(valueStr); err != nil {
		return nil, err
	}
	tx.Kind = domain.MovementKind(kind)
	if tx.CategoryID, err = scanUUID(categoryID); err != nil {
		return nil, err
	}
	if tx.ImportID, err = scanUUID(importID); err != nil {
		return nil, err
	}

	return &tx, nil
}
