package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

const importBatchColumns = `id, account_id, file_name, imported_at, bank_account_id, transaction_count, source_uri`

// importBatchRepository implements domain.ImportBatchRepository
type importBatchRepository struct {
	c conn
}

// Create inserts a new import batch
func (r importBatchRepository) Create(ctx context.Context, batch *domain.ImportBatch) error {
	query := `
		INSERT INTO import_batches (` + importBatchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.c.exec(ctx, query,
		batch.ID,
		batch.AccountID,
		batch.FileName,
		formatTimestamp(batch.ImportedAt),
		batch.BankAccountID,
		batch.TransactionCount,
		batch.SourceURI,
	)
	if err != nil {
		return fmt.Errorf("failed to create import batch: %w", err)
	}

	return nil
}

// GetByID retrieves an import batch owned by the account
func (r importBatchRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.ImportBatch, error) {
	query := `SELECT ` + importBatchColumns + ` FROM import_batches WHERE id = ? AND account_id = ?`

	batch, err := scanImportBatch(r.c.queryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("import batch %s", id)
		}
		return nil, fmt.Errorf("failed to get import batch by ID: %w", err)
	}
	return batch, nil
}

// List returns the account's import batches, most recent first
func (r importBatchRepository) List(ctx context.Context, accountID uuid.UUID) ([]*domain.ImportBatch, error) {
	query := `SELECT ` + importBatchColumns + ` FROM import_batches
		WHERE account_id = ?
		ORDER BY imported_at DESC, id`

	rows, err := r.c.query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list import batches: %w", err)
	}
	defer rows.Close()

	batches := make([]*domain.ImportBatch, 0)
	for rows.Next() {
		batch, err := scanImportBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import batches: %w", err)
	}

	return batches, nil
}

// Delete removes an import batch record
func (r importBatchRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := r.c.exec(ctx, `DELETE FROM import_batches WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete import batch: %w", err)
	}

	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("import batch %s", id)
	}
	return nil
}

func scanImportBatch(row rowScanner) (*domain.ImportBatch, error) {
	var batch domain.ImportBatch
	var importedAt string

	err := row.Scan(
		&batch.ID,
		&batch.AccountID,
		&batch.FileName,
		&importedAt,
		&batch.BankAccountID,
		&batch.TransactionCount,
		&batch.SourceURI,
	)
	if err != nil {
		return nil, err
	}

	if batch.ImportedAt, err = parseTimestamp(importedAt); err != nil {
		return nil, err
	}
	return &batch, nil
}
