package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MovementKind carries the direction of a movement. Values are always stored
// as absolute magnitudes; the sign lives here.
type MovementKind string

const (
	MovementCredit MovementKind = "CREDIT"
	MovementDebit  MovementKind = "DEBIT"
)

// movementAliases lists the spellings accepted at ingestion (API, CSV, rules)
var movementAliases = map[string]MovementKind{
	"credit":  MovementCredit,
	"c":       MovementCredit,
	"in":      MovementCredit,
	"income":  MovementCredit,
	"receita": MovementCredit,
	"entrada": MovementCredit,
	"debit":   MovementDebit,
	"d":       MovementDebit,
	"out":     MovementDebit,
	"expense": MovementDebit,
	"despesa": MovementDebit,
	"saida":   MovementDebit,
	"saída":   MovementDebit,
}

// ParseMovementKind resolves a user supplied spelling into a MovementKind
func ParseMovementKind(s string) (MovementKind, error) {
	kind, ok := movementAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", InvalidInputf("unknown movement kind %q", s)
	}
	return kind, nil
}

// Valid reports whether k is one of the two known kinds
func (k MovementKind) Valid() bool {
	return k == MovementCredit || k == MovementDebit
}

// Signed applies the direction of k to an absolute value
func (k MovementKind) Signed(value decimal.Decimal) decimal.Decimal {
	if k == MovementDebit {
		return value.Neg()
	}
	return value
}
