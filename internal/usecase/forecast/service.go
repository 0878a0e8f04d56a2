package forecast

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/recurrence"
)

// DefaultFixedHorizon is how many months of a fixed monthly series are
// materialized when the service is built without an explicit horizon.
const DefaultFixedHorizon = 60

// CreateForecastInput represents a user entered forecast, possibly recurring
type CreateForecastInput struct {
	Description   string
	Value         decimal.Decimal
	Kind          domain.MovementKind
	BankAccountID uuid.UUID
	CategoryID    *uuid.UUID // Optional
	StartDate     civil.Date
	Installments  int  // N >= 1, ignored when FixedMonthly is set
	FixedMonthly  bool // Open-ended monthly series
	Reconciled    bool // Only used by CreateRealizingFirst for the realized occurrence
}

// QuickAddResult is returned by CreateRealizingFirst
type QuickAddResult struct {
	TransactionID uuid.UUID
	ForecastIDs   []uuid.UUID
	GroupID       *uuid.UUID
}

// ForecastService handles the forecast lifecycle: series generation,
// realization and series deletion
type ForecastService struct {
	Store        domain.LedgerStore
	Clock        domain.Clock
	FixedHorizon int // Months materialized for fixed monthly series
}

// NewForecastService creates a new ForecastService instance
func NewForecastService(store domain.LedgerStore, clock domain.Clock, fixedHorizon int) *ForecastService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if fixedHorizon <= 0 {
		fixedHorizon = DefaultFixedHorizon
	}
	return &ForecastService{
		Store:        store,
		Clock:        clock,
		FixedHorizon: fixedHorizon,
	}
}

// CreateForecast expands the input into its forecasts and persists them in
// one unit of work.
// Logic:
//  1. N = 1 without the fixed flag -> one standalone forecast (no group, no installments)
//  2. Otherwise one forecast per month offset, sharing a new group id,
//     installment-current = offset+1, installment-total = N (or 0 for fixed series)
//
// Returns the created ids ordered by installment.
func (s *ForecastService) CreateForecast(ctx context.Context, accountID uuid.UUID, input CreateForecastInput) ([]uuid.UUID, error) {
	schedule, err := s.prepare(ctx, accountID, input)
	if err != nil {
		return nil, err
	}

	forecasts := s.expand(accountID, input, schedule)
	for _, f := range forecasts {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, 0, len(forecasts))
	err = s.Store.Atomic(ctx, func(l domain.Ledger) error {
		for _, f := range forecasts {
			if err := l.Forecasts().Create(ctx, f); err != nil {
				return err
			}
			ids = append(ids, f.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("account_id", accountID.String()).
		Int("count", len(ids)).
		Bool("fixed_monthly", input.FixedMonthly).
		Msg("forecasts created")

	return ids, nil
}

// CreateRealizingFirst is the quick-add flow: the first occurrence is posted
// directly as a Transaction and the remaining occurrences are stored as
// Forecasts in the same group, starting at installment 2.
func (s *ForecastService) CreateRealizingFirst(ctx context.Context, accountID uuid.UUID, input CreateForecastInput) (*QuickAddResult, error) {
	schedule, err := s.prepare(ctx, accountID, input)
	if err != nil {
		return nil, err
	}

	var groupID *uuid.UUID
	var total *int
	first, _ := schedule.At(0)
	if schedule.IsSeries() {
		id := uuid.New()
		groupID = &id
		t := schedule.Total()
		total = &t
	}

	tx := &domain.Transaction{
		ID:            uuid.New(),
		AccountID:     accountID,
		Date:          first.Date,
		Description:   withLabel(input.Description, domain.InstallmentLabel(groupID != nil, intPtr(first.Installment), total)),
		Value:         input.Value,
		Kind:          input.Kind,
		CategoryID:    input.CategoryID,
		BankAccountID: input.BankAccountID,
		Reconciled:    input.Reconciled,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	var remaining []*domain.Forecast
	if groupID != nil {
		remaining = s.expandGroup(accountID, input, schedule, *groupID, 1)
	}

	result := &QuickAddResult{
		TransactionID: tx.ID,
		ForecastIDs:   make([]uuid.UUID, 0, len(remaining)),
		GroupID:       groupID,
	}

	err = s.Store.Atomic(ctx, func(l domain.Ledger) error {
		if err := l.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		for _, f := range remaining {
			if err := l.Forecasts().Create(ctx, f); err != nil {
				return err
			}
			result.ForecastIDs = append(result.ForecastIDs, f.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RealizeForecast converts a forecast into a transaction dated effectiveDate.
// A zero effectiveDate means today. Realizing an already realized forecast
// fails with domain.ErrConflict and creates nothing.
func (s *ForecastService) RealizeForecast(ctx context.Context, accountID, forecastID uuid.UUID, effectiveDate civil.Date) (*domain.Transaction, error) {
	if domain.IsZeroDate(effectiveDate) {
		effectiveDate = domain.Today(s.Clock)
	}
	if !effectiveDate.IsValid() {
		return nil, domain.InvalidInputf("effective date %q is not a valid date", effectiveDate.String())
	}

	var tx *domain.Transaction
	err := s.Store.Atomic(ctx, func(l domain.Ledger) error {
		f, err := l.Forecasts().GetByID(ctx, accountID, forecastID)
		if err != nil {
			return err
		}

		changed, err := l.Forecasts().MarkRealized(ctx, accountID, forecastID)
		if err != nil {
			return err
		}
		if !changed {
			return domain.Conflictf("forecast %s is already realized", forecastID)
		}

		tx = &domain.Transaction{
			ID:            uuid.New(),
			AccountID:     accountID,
			Date:          effectiveDate,
			Description:   withLabel(f.Description, f.InstallmentLabel()),
			Value:         f.Value,
			Kind:          f.Kind,
			CategoryID:    f.CategoryID,
			BankAccountID: f.BankAccountID,
			Reconciled:    false,
		}
		if err := tx.Validate(); err != nil {
			return err
		}
		return l.Transactions().Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// DeleteForecast removes a forecast and, depending on mode, other members of
// its recurrence group. Standalone forecasts ignore the mode.
// Returns the number of forecasts removed.
func (s *ForecastService) DeleteForecast(ctx context.Context, accountID, forecastID uuid.UUID, mode domain.DeletionMode) (int, error) {
	mode, err := domain.ParseDeletionMode(string(mode))
	if err != nil {
		return 0, err
	}

	deleted := 0
	err = s.Store.Atomic(ctx, func(l domain.Ledger) error {
		f, err := l.Forecasts().GetByID(ctx, accountID, forecastID)
		if err != nil {
			return err
		}

		if !f.InGroup() || mode == domain.DeleteSingle {
			if err := l.Forecasts().Delete(ctx, accountID, f.ID); err != nil {
				return err
			}
			deleted = 1
			return nil
		}

		var from *civil.Date
		if mode == domain.DeleteFuture {
			from = &f.Date
		}
		deleted, err = l.Forecasts().DeleteGroup(ctx, accountID, *f.GroupID, from)
		return err
	})
	if err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("account_id", accountID.String()).
		Str("forecast_id", forecastID.String()).
		Str("mode", string(mode)).
		Int("deleted", deleted).
		Msg("forecasts deleted")

	return deleted, nil
}

// ExtendSeries materializes the next count occurrences of a fixed monthly
// series after its last stored member
func (s *ForecastService) ExtendSeries(ctx context.Context, accountID, groupID uuid.UUID, count int) ([]uuid.UUID, error) {
	if count < 1 {
		return nil, domain.InvalidInputf("extension count must be at least 1, got %d", count)
	}

	var ids []uuid.UUID
	err := s.Store.Atomic(ctx, func(l domain.Ledger) error {
		members, err := l.Forecasts().ListGroup(ctx, accountID, groupID)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return domain.NotFoundf("recurrence group %s", groupID)
		}

		first, last := members[0], members[len(members)-1]
		if !last.IsOpenEnded() {
			return domain.InvalidInputf("recurrence group %s has a bounded total and cannot be extended", groupID)
		}

		// Recover the series anchor. Clamping only ever lowers the day, so
		// the largest stored day is the original day of month. Start may
		// then lie past the end of its month; At clamps every occurrence.
		anchorDay := 1
		for _, m := range members {
			if m.Date.Day > anchorDay {
				anchorDay = m.Date.Day
			}
		}
		month := domain.AddMonths(civil.Date{Year: first.Date.Year, Month: first.Date.Month, Day: 1}, 1-*first.InstallmentCurrent)
		schedule := recurrence.Schedule{
			Start:     civil.Date{Year: month.Year, Month: month.Month, Day: anchorDay},
			OpenEnded: true,
		}

		template := CreateForecastInput{
			Description:   last.Description,
			Value:         last.Value,
			Kind:          last.Kind,
			BankAccountID: last.BankAccountID,
			CategoryID:    last.CategoryID,
		}
		for _, f := range s.buildGroup(accountID, template, schedule.Slice(*last.InstallmentCurrent, count), groupID, domain.OpenEndedTotal) {
			if err := l.Forecasts().Create(ctx, f); err != nil {
				return err
			}
			ids = append(ids, f.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListForecasts returns forecasts in a date range
func (s *ForecastService) ListForecasts(ctx context.Context, accountID uuid.UUID, filter domain.ForecastFilter) ([]*domain.Forecast, error) {
	return s.Store.Forecasts().List(ctx, accountID, filter)
}

// ListGroup returns the members of a recurrence group ordered by installment
func (s *ForecastService) ListGroup(ctx context.Context, accountID, groupID uuid.UUID) ([]*domain.Forecast, error) {
	members, err := s.Store.Forecasts().ListGroup(ctx, accountID, groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.NotFoundf("recurrence group %s", groupID)
	}
	return members, nil
}

// prepare validates the input and its references and builds the schedule
func (s *ForecastService) prepare(ctx context.Context, accountID uuid.UUID, input CreateForecastInput) (recurrence.Schedule, error) {
	if accountID == uuid.Nil {
		return recurrence.Schedule{}, domain.InvalidInputf("account id is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return recurrence.Schedule{}, domain.InvalidInputf("description is required")
	}
	if input.Value.IsNegative() {
		return recurrence.Schedule{}, domain.InvalidInputf("value must be non-negative (absolute value)")
	}
	if !input.Kind.Valid() {
		return recurrence.Schedule{}, domain.InvalidInputf("kind must be CREDIT or DEBIT")
	}
	if input.BankAccountID == uuid.Nil {
		return recurrence.Schedule{}, domain.InvalidInputf("bank account is required")
	}

	schedule, err := recurrence.New(input.StartDate, input.Installments, input.FixedMonthly)
	if err != nil {
		return recurrence.Schedule{}, err
	}

	if _, err := s.Store.BankAccounts().GetByID(ctx, accountID, input.BankAccountID); err != nil {
		return recurrence.Schedule{}, err
	}
	if input.CategoryID != nil {
		if _, err := s.Store.Categories().GetByID(ctx, accountID, *input.CategoryID); err != nil {
			return recurrence.Schedule{}, err
		}
	}

	return schedule, nil
}

// expand materializes the whole schedule, bounded by FixedHorizon for fixed series
func (s *ForecastService) expand(accountID uuid.UUID, input CreateForecastInput, schedule recurrence.Schedule) []*domain.Forecast {
	if !schedule.IsSeries() {
		first, _ := schedule.At(0)
		return []*domain.Forecast{{
			ID:            uuid.New(),
			AccountID:     accountID,
			Date:          first.Date,
			Description:   input.Description,
			Value:         input.Value,
			Kind:          input.Kind,
			CategoryID:    input.CategoryID,
			BankAccountID: input.BankAccountID,
		}}
	}
	return s.expandGroup(accountID, input, schedule, uuid.New(), 0)
}

// expandGroup materializes series members under groupID from offset onwards
func (s *ForecastService) expandGroup(accountID uuid.UUID, input CreateForecastInput, schedule recurrence.Schedule, groupID uuid.UUID, from int) []*domain.Forecast {
	n := schedule.Count
	if schedule.OpenEnded {
		n = s.FixedHorizon
	}
	return s.buildGroup(accountID, input, schedule.Slice(from, n-from), groupID, schedule.Total())
}

func (s *ForecastService) buildGroup(accountID uuid.UUID, input CreateForecastInput, occurrences []recurrence.Occurrence, groupID uuid.UUID, total int) []*domain.Forecast {
	forecasts := make([]*domain.Forecast, 0, len(occurrences))
	for _, occ := range occurrences {
		gid := groupID
		forecasts = append(forecasts, &domain.Forecast{
			ID:                 uuid.New(),
			AccountID:          accountID,
			Date:               occ.Date,
			Description:        input.Description,
			Value:              input.Value,
			Kind:               input.Kind,
			CategoryID:         input.CategoryID,
			BankAccountID:      input.BankAccountID,
			InstallmentCurrent: intPtr(occ.Installment),
			InstallmentTotal:   intPtr(total),
			GroupID:            &gid,
		})
	}
	return forecasts
}

func withLabel(description, label string) string {
	if label == "" {
		return description
	}
	if description == "" {
		return label
	}
	return description + " " + label
}

func intPtr(v int) *int { return &v }
