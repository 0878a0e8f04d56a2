package warehouse

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

func TestRowsFromTransactions(t *testing.T) {
	accountID := uuid.New()
	bankID := uuid.New()
	known := uuid.New()
	unknown := uuid.New()
	batch := uuid.New()
	exportedAt := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	txs := []*domain.Transaction{
		{
			ID:            uuid.New(),
			AccountID:     accountID,
			Date:          civil.Date{Year: 2024, Month: 3, Day: 2},
			Description:   "Fornecedor Alfa",
			Value:         decimal.RequireFromString("300.25"),
			Kind:          domain.MovementDebit,
			CategoryID:    &known,
			BankAccountID: bankID,
			Reconciled:    true,
			ImportID:      &batch,
		},
		{
			ID:            uuid.New(),
			AccountID:     accountID,
			Date:          civil.Date{Year: 2024, Month: 3, Day: 3},
			Description:   "Cliente",
			Value:         decimal.NewFromInt(1000),
			Kind:          domain.MovementCredit,
			CategoryID:    &unknown,
			BankAccountID: bankID,
		},
		{
			ID:            uuid.New(),
			AccountID:     accountID,
			Date:          civil.Date{Year: 2024, Month: 3, Day: 4},
			Description:   "sem categoria",
			Value:         decimal.NewFromInt(1),
			Kind:          domain.MovementDebit,
			BankAccountID: bankID,
		},
	}

	rows := RowsFromTransactions(txs, map[uuid.UUID]string{known: "Compra de mercadorias"}, exportedAt)
	require.Len(t, rows, 3)

	debit := rows[0]
	assert.Equal(t, txs[0].ID.String(), debit.TransactionID)
	assert.Equal(t, 0, debit.Amount.Cmp(big.NewRat(30025, 100)))
	assert.Equal(t, 0, debit.SignedAmount.Cmp(big.NewRat(-30025, 100)))
	assert.Equal(t, "DEBIT", debit.Direction)
	assert.True(t, debit.CategoryName.Valid)
	assert.Equal(t, "Compra de mercadorias", debit.CategoryName.StringVal)
	assert.Equal(t, batch.String(), debit.ImportID.StringVal)
	assert.Equal(t, time.UTC, debit.ExportedAt.Location())

	credit := rows[1]
	assert.Equal(t, 0, credit.SignedAmount.Cmp(big.NewRat(1000, 1)))
	assert.True(t, credit.CategoryID.Valid)
	assert.False(t, credit.CategoryName.Valid, "unknown category keeps only the id")
	assert.False(t, credit.ImportID.Valid)

	assert.False(t, rows[2].CategoryID.Valid)
}

func TestNewExporter_RequiresTarget(t *testing.T) {
	_, err := NewExporter(t.Context(), "project", "", "transactions")
	assert.Error(t, err)
}
