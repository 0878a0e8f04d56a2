package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenEndedTotal is the installment total stored on members of a fixed
// monthly series, which has no bounded length.
const OpenEndedTotal = 0

// Forecast is a planned movement that has not happened yet
type Forecast struct {
	ID                 uuid.UUID
	AccountID          uuid.UUID
	Date               civil.Date
	Description        string
	Value              decimal.Decimal // ABSOLUTE VALUE
	Kind               MovementKind
	CategoryID         *uuid.UUID
	BankAccountID      uuid.UUID
	Realized           bool       // Terminal once true
	InstallmentCurrent *int       // 1-based position, NULL for standalone forecasts
	InstallmentTotal   *int       // Series length, OpenEndedTotal for fixed monthly series
	GroupID            *uuid.UUID // Shared by every member of one generated series
}

// Validate ensures the forecast adheres to domain rules
func (f *Forecast) Validate() error {
	if f.AccountID == uuid.Nil {
		return InvalidInputf("forecast must belong to an account")
	}
	if !f.Date.IsValid() {
		return InvalidInputf("forecast date %q is not a valid date", f.Date.String())
	}
	if f.Value.IsNegative() {
		return InvalidInputf("forecast value must be non-negative (absolute value)")
	}
	if !f.Kind.Valid() {
		return InvalidInputf("forecast kind must be CREDIT or DEBIT")
	}
	if f.BankAccountID == uuid.Nil {
		return InvalidInputf("forecast must reference a bank account")
	}

	// Group members MUST carry their position and the series total
	if f.GroupID != nil {
		if f.InstallmentCurrent == nil || *f.InstallmentCurrent < 1 {
			return InvalidInputf("grouped forecast must have a positive installment number")
		}
		if f.InstallmentTotal == nil {
			return InvalidInputf("grouped forecast must have an installment total")
		}
		if *f.InstallmentTotal != OpenEndedTotal && *f.InstallmentCurrent > *f.InstallmentTotal {
			return InvalidInputf("installment %d exceeds series total %d", *f.InstallmentCurrent, *f.InstallmentTotal)
		}
	}

	return nil
}

// InGroup reports whether the forecast belongs to a recurrence group
func (f *Forecast) InGroup() bool {
	return f.GroupID != nil
}

// IsOpenEnded reports whether the forecast is a member of a fixed monthly series
func (f *Forecast) IsOpenEnded() bool {
	return f.GroupID != nil && f.InstallmentTotal != nil && *f.InstallmentTotal == OpenEndedTotal
}

// InstallmentLabel returns "(current/total)" for bounded series members,
// "(recurring)" for open-ended ones and "" for standalone forecasts
func (f *Forecast) InstallmentLabel() string {
	return InstallmentLabel(f.GroupID != nil, f.InstallmentCurrent, f.InstallmentTotal)
}

// InstallmentLabel formats the series position suffix used on realized transactions
func InstallmentLabel(grouped bool, current, total *int) string {
	if !grouped {
		return ""
	}
	if current != nil && total != nil && *total != OpenEndedTotal {
		return fmt.Sprintf("(%d/%d)", *current, *total)
	}
	return "(recurring)"
}

// DeletionMode selects which members of a recurrence group are removed
type DeletionMode string

const (
	DeleteSingle DeletionMode = "single"
	DeleteFuture DeletionMode = "future"
	DeleteAll    DeletionMode = "all"
)

// ParseDeletionMode validates a deletion mode; empty means single
func ParseDeletionMode(s string) (DeletionMode, error) {
	switch DeletionMode(s) {
	case "", DeleteSingle:
		return DeleteSingle, nil
	case DeleteFuture:
		return DeleteFuture, nil
	case DeleteAll:
		return DeleteAll, nil
	default:
		return "", InvalidInputf("unknown deletion mode %q", s)
	}
}
