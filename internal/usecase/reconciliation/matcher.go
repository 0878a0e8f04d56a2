package reconciliation

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// Candidate is one record parsed from a bank statement, already classified
type Candidate struct {
	Date          civil.Date
	Description   string
	Value         decimal.Decimal // ABSOLUTE VALUE
	Kind          domain.MovementKind
	BankAccountID uuid.UUID
	CategoryID    *uuid.UUID
}

// Validate ensures the candidate can become a transaction
func (c *Candidate) Validate() error {
	if !c.Date.IsValid() {
		return domain.InvalidInputf("candidate date %q is not a valid date", c.Date.String())
	}
	if c.Value.IsNegative() {
		return domain.InvalidInputf("candidate value must be non-negative (absolute value)")
	}
	if !c.Kind.Valid() {
		return domain.InvalidInputf("candidate kind must be CREDIT or DEBIT")
	}
	return nil
}

// matches reports whether tx is a probable duplicate of the candidate
func (c *Candidate) matches(tx *domain.Transaction) bool {
	return tx.Date == c.Date && tx.Kind == c.Kind && tx.Value.Equal(c.Value)
}

// Resolution is the user's decision for one conflict
type Resolution string

const (
	KeepExisting   Resolution = "keep"
	ReplaceWithNew Resolution = "replace"
)

// ParseResolution validates a resolution; empty means keep existing
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case "", KeepExisting:
		return KeepExisting, nil
	case ReplaceWithNew:
		return ReplaceWithNew, nil
	default:
		return "", domain.InvalidInputf("unknown conflict resolution %q", s)
	}
}

// Conflict pairs a candidate with the existing transaction it duplicates
type Conflict struct {
	Candidate  Candidate
	Existing   *domain.Transaction
	Resolution Resolution
}

// Plan is the partition of a statement into clean and conflicting records
type Plan struct {
	BankAccountID uuid.UUID
	Clean         []Candidate
	Conflicts     []Conflict
}

// ResolveAll applies one resolution to every conflict
func (p *Plan) ResolveAll(r Resolution) {
	for i := range p.Conflicts {
		p.Conflicts[i].Resolution = r
	}
}

// Match partitions candidates against the existing transactions of a bank account.
//
// Logic:
//   - Keep a working copy of existing transactions ordered by (date, id)
//   - For each candidate in input order, the first working transaction with the
//     same date, value and kind is a conflict, and is removed from the working
//     copy so it cannot be matched twice
//   - Candidates without a match are clean
//
// Every conflict defaults to KeepExisting.
func Match(candidates []Candidate, existing []*domain.Transaction) Plan {
	working := make([]*domain.Transaction, len(existing))
	copy(working, existing)

	// Deterministic tie-break: earliest date, then lowest id
	sort.SliceStable(working, func(i, j int) bool {
		if working[i].Date != working[j].Date {
			return working[i].Date.Before(working[j].Date)
		}
		return working[i].ID.String() < working[j].ID.String()
	})

	plan := Plan{
		Clean:     make([]Candidate, 0),
		Conflicts: make([]Conflict, 0),
	}

	for _, candidate := range candidates {
		matched := -1
		for i, tx := range working {
			if candidate.matches(tx) {
				matched = i
				break
			}
		}

		if matched < 0 {
			plan.Clean = append(plan.Clean, candidate)
			continue
		}

		plan.Conflicts = append(plan.Conflicts, Conflict{
			Candidate:  candidate,
			Existing:   working[matched],
			Resolution: KeepExisting,
		})
		working = append(working[:matched], working[matched+1:]...)
	}

	return plan
}
