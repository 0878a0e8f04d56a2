package domain

import (
	"github.com/google/uuid"
)

// BankAccount is a reference row owned by the plain CRUD layer
type BankAccount struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Name        string
	Institution string
}

// Validate ensures the bank account adheres to domain rules
func (b *BankAccount) Validate() error {
	if b.AccountID == uuid.Nil {
		return InvalidInputf("bank account must belong to an account")
	}
	if b.Name == "" {
		return InvalidInputf("bank account name cannot be empty")
	}
	return nil
}

// Category is a reference row whose name drives report classification
type Category struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	Kind      MovementKind // Optional hint, empty when the category takes both kinds
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	if c.AccountID == uuid.Nil {
		return InvalidInputf("category must belong to an account")
	}
	if c.Name == "" {
		return InvalidInputf("category name cannot be empty")
	}
	if c.Kind != "" && !c.Kind.Valid() {
		return InvalidInputf("category kind must be CREDIT, DEBIT or empty")
	}
	return nil
}
