package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportBatch records one statement ingestion. Transactions it produced
// reference it through Transaction.ImportID.
type ImportBatch struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	FileName         string
	ImportedAt       time.Time
	BankAccountID    uuid.UUID
	TransactionCount int
	SourceURI        string // Where the raw statement was archived, empty if not archived
}

// Validate ensures the batch adheres to domain rules
func (b *ImportBatch) Validate() error {
	if b.AccountID == uuid.Nil {
		return InvalidInputf("import batch must belong to an account")
	}
	if b.BankAccountID == uuid.Nil {
		return InvalidInputf("import batch must reference a bank account")
	}
	if b.FileName == "" {
		return InvalidInputf("import batch file name cannot be empty")
	}
	if b.TransactionCount < 0 {
		return InvalidInputf("import batch transaction count cannot be negative")
	}
	return nil
}
