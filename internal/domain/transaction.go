package domain

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a realized movement posted to an account's ledger
type Transaction struct {
	ID            uuid.UUID
	AccountID     uuid.UUID // owning tenant
	Date          civil.Date
	Description   string
	Value         decimal.Decimal // ABSOLUTE VALUE (Never negative)
	Kind          MovementKind    // 'CREDIT' or 'DEBIT'
	CategoryID    *uuid.UUID
	BankAccountID uuid.UUID
	Reconciled    bool
	ImportID      *uuid.UUID // Set when created by a statement import
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return InvalidInputf("transaction must belong to an account")
	}
	if !t.Date.IsValid() {
		return InvalidInputf("transaction date %q is not a valid date", t.Date.String())
	}
	if t.Value.IsNegative() {
		return InvalidInputf("transaction value must be non-negative (absolute value)")
	}
	if !t.Kind.Valid() {
		return InvalidInputf("transaction kind must be CREDIT or DEBIT")
	}
	if t.BankAccountID == uuid.Nil {
		return InvalidInputf("transaction must reference a bank account")
	}
	return nil
}

// SignedValue returns the value with the movement direction applied
func (t *Transaction) SignedValue() decimal.Decimal {
	return t.Kind.Signed(t.Value)
}
