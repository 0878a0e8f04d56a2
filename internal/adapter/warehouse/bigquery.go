// Package warehouse exports the ledger to BigQuery for ad-hoc analysis.
package warehouse

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// TransactionRow is one ledger transaction as stored in the warehouse table
type TransactionRow struct {
	TransactionID string     `bigquery:"transaction_id"`
	AccountID     string     `bigquery:"account_id"`
	BankAccountID string     `bigquery:"bank_account_id"`
	Date          civil.Date `bigquery:"transaction_date"`
	Description   string     `bigquery:"description"`

	Amount       *big.Rat `bigquery:"amount"`        // REQUIRED NUMERIC, absolute
	SignedAmount *big.Rat `bigquery:"signed_amount"` // REQUIRED NUMERIC, debits negative
	Direction    string   `bigquery:"direction"`

	CategoryID   bigquery.NullString `bigquery:"category_id"`
	CategoryName bigquery.NullString `bigquery:"category_name"`
	Reconciled   bool                `bigquery:"reconciled"`
	ImportID     bigquery.NullString `bigquery:"import_batch_id"`

	ExportedAt time.Time `bigquery:"exported_at"`
}

// RowsFromTransactions converts ledger transactions into warehouse rows.
// names resolves category ids; unknown ids keep the id without a name.
func RowsFromTransactions(txs []*domain.Transaction, names map[uuid.UUID]string, exportedAt time.Time) []*TransactionRow {
	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		row := &TransactionRow{
			TransactionID: tx.ID.String(),
			AccountID:     tx.AccountID.String(),
			BankAccountID: tx.BankAccountID.String(),
			Date:          tx.Date,
			Description:   tx.Description,
			Amount:        tx.Value.Rat(),
			SignedAmount:  tx.SignedValue().Rat(),
			Direction:     string(tx.Kind),
			Reconciled:    tx.Reconciled,
			ExportedAt:    exportedAt.UTC(),
		}
		if tx.CategoryID != nil {
			row.CategoryID = bigquery.NullString{StringVal: tx.CategoryID.String(), Valid: true}
			if name, ok := names[*tx.CategoryID]; ok {
				row.CategoryName = bigquery.NullString{StringVal: name, Valid: true}
			}
		}
		if tx.ImportID != nil {
			row.ImportID = bigquery.NullString{StringVal: tx.ImportID.String(), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// Exporter streams transaction rows into one BigQuery table
type Exporter struct {
	client  *bigquery.Client
	project string
	dataset string
	table   string
}

// NewExporter opens a BigQuery client for project.
// It assumes Application Default Credentials are configured.
func NewExporter(ctx context.Context, project, dataset, table string) (*Exporter, error) {
	if project == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("warehouse export needs a project, a dataset and a table")
	}
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: bigquery client: %w", err)
	}
	return &Exporter{client: client, project: project, dataset: dataset, table: table}, nil
}

// Close closes the BigQuery client connection
func (e *Exporter) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Export inserts rows keyed by transaction id, so re-exporting a range does
// not duplicate rows inside BigQuery's deduplication window
func (e *Exporter) Export(ctx context.Context, rows []*TransactionRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	savers := make([]*bigquery.StructSaver, 0, len(rows))
	for _, row := range rows {
		savers = append(savers, &bigquery.StructSaver{Struct: row, InsertID: row.TransactionID})
	}

	// Use fully qualified table name to avoid project ID issues
	inserter := e.client.DatasetInProject(e.project, e.dataset).Table(e.table).Inserter()
	if err := inserter.Put(ctx, savers); err != nil {
		return 0, fmt.Errorf("Export: inserting rows: %w", err)
	}
	return len(rows), nil
}
