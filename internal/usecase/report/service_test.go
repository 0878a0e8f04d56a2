package report

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bookkeeper-backend/internal/adapter/repository/memory"
	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

var january = domain.DateRange{From: day(2024, time.January, 1), To: day(2024, time.January, 31)}

type fixture struct {
	ctx        context.Context
	store      *memory.Store
	service    *ReportService
	accountID  uuid.UUID
	bankID     uuid.UUID
	categories map[string]uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{
		ctx:        ctx,
		store:      store,
		service:    NewReportService(store, nil),
		accountID:  uuid.New(),
		bankID:     uuid.New(),
		categories: make(map[string]uuid.UUID),
	}
	require.NoError(t, store.BankAccounts().Create(ctx, &domain.BankAccount{ID: f.bankID, AccountID: f.accountID, Name: "Checking"}))
	for _, name := range []string{"Vendas", "Devolução", "Mercadorias", "Comissão", "Aluguel", "Juros", "Impostos"} {
		id := uuid.New()
		f.categories[name] = id
		require.NoError(t, store.Categories().Create(ctx, &domain.Category{ID: id, AccountID: f.accountID, Name: name}))
	}
	return f
}

func (f *fixture) tx(t *testing.T, d civil.Date, value int64, kind domain.MovementKind, category string, reconciled bool) {
	t.Helper()
	tx := &domain.Transaction{
		ID:            uuid.New(),
		AccountID:     f.accountID,
		Date:          d,
		Description:   category,
		Value:         decimal.NewFromInt(value),
		Kind:          kind,
		BankAccountID: f.bankID,
		Reconciled:    reconciled,
	}
	if id, ok := f.categories[category]; ok {
		tx.CategoryID = &id
	}
	require.NoError(t, f.store.Transactions().Create(f.ctx, tx))
}

func (f *fixture) forecast(t *testing.T, d civil.Date, value int64, kind domain.MovementKind, realized bool) {
	t.Helper()
	require.NoError(t, f.store.Forecasts().Create(f.ctx, &domain.Forecast{
		ID:            uuid.New(),
		AccountID:     f.accountID,
		Date:          d,
		Description:   "planned",
		Value:         decimal.NewFromInt(value),
		Kind:          kind,
		BankAccountID: f.bankID,
		Realized:      realized,
	}))
}

// seedJanuary builds a small company month:
// opening 400, revenue 1000, deductions 50, goods 300, commission 100,
// rent 200, interest 20, taxes 60
func (f *fixture) seedJanuary(t *testing.T) {
	t.Helper()
	f.tx(t, day(2023, time.December, 10), 500, domain.MovementCredit, "Vendas", true)
	f.tx(t, day(2023, time.December, 20), 100, domain.MovementDebit, "Aluguel", true)
	f.tx(t, day(2023, time.December, 21), 9999, domain.MovementDebit, "Aluguel", false)

	f.tx(t, day(2024, time.January, 5), 1000, domain.MovementCredit, "Vendas", true)
	f.tx(t, day(2024, time.January, 6), 50, domain.MovementDebit, "Devolução", true)
	f.tx(t, day(2024, time.January, 6), 300, domain.MovementDebit, "Mercadorias", true)
	f.tx(t, day(2024, time.January, 7), 999, domain.MovementCredit, "Vendas", false)
	f.tx(t, day(2024, time.January, 10), 100, domain.MovementDebit, "Comissão", true)
	f.tx(t, day(2024, time.January, 15), 200, domain.MovementDebit, "Aluguel", true)
	f.tx(t, day(2024, time.January, 20), 20, domain.MovementDebit, "Juros", true)
	f.tx(t, day(2024, time.January, 25), 60, domain.MovementDebit, "Impostos", true)
	f.tx(t, day(2024, time.February, 1), 777, domain.MovementCredit, "Vendas", true)

	f.forecast(t, day(2024, time.January, 28), 80, domain.MovementDebit, false)
	f.forecast(t, day(2024, time.January, 29), 1000, domain.MovementCredit, true)
	f.forecast(t, day(2024, time.February, 10), 500, domain.MovementCredit, false)
}

func TestGetCashFlow(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	report, err := f.service.GetCashFlow(f.ctx, f.accountID, january)
	require.NoError(t, err)

	assertDecimal(t, "400", report.OpeningBalance, "opening")
	assertDecimal(t, "1000", report.TotalIncome, "income")
	assertDecimal(t, "730", report.TotalExpense, "expense")
	assertDecimal(t, "670", report.ClosingBalance, "closing")
	assertDecimal(t, "0", report.ProjectedIncome, "projected income")
	assertDecimal(t, "80", report.ProjectedExpense, "projected expense")
	assertDecimal(t, "590", report.ProjectedClosing, "projected closing")

	require.Len(t, report.Income, 1)
	assert.Equal(t, "Vendas", report.Income[0].CategoryName)
	require.Len(t, report.Expense, 6)
	assert.Equal(t, "Mercadorias", report.Expense[0].CategoryName)
	assertDecimal(t, "300", report.Expense[0].Total, "largest expense")
	assert.Equal(t, "Juros", report.Expense[5].CategoryName)
}

func TestGetCashFlow_Uncategorized(t *testing.T) {
	f := newFixture(t)
	f.tx(t, day(2024, time.January, 3), 40, domain.MovementDebit, "", true)

	report, err := f.service.GetCashFlow(f.ctx, f.accountID, january)
	require.NoError(t, err)
	require.Len(t, report.Expense, 1)
	assert.Nil(t, report.Expense[0].CategoryID)
	assert.Equal(t, UncategorizedName, report.Expense[0].CategoryName)
}

func TestGetCashFlow_ClosingIdentity(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	start := day(2023, time.November, 1)
	for offset := 0; offset < 120; offset += 7 {
		for length := 0; length < 60; length += 13 {
			r := domain.DateRange{From: start.AddDays(offset), To: start.AddDays(offset + length)}
			report, err := f.service.GetCashFlow(f.ctx, f.accountID, r)
			require.NoError(t, err)
			want := report.OpeningBalance.Add(report.TotalIncome).Sub(report.TotalExpense)
			assert.True(t, want.Equal(report.ClosingBalance), "range %s..%s", r.From, r.To)
		}
	}
}

func TestGetCashFlow_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	first, err := f.service.GetCashFlow(f.ctx, f.accountID, january)
	require.NoError(t, err)
	second, err := f.service.GetCashFlow(f.ctx, f.accountID, january)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetCashFlow_OtherAccountIsolated(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	report, err := f.service.GetCashFlow(f.ctx, uuid.New(), january)
	require.NoError(t, err)
	assert.True(t, report.ClosingBalance.IsZero())
	assert.Empty(t, report.Income)
	assert.Empty(t, report.Expense)
}

func TestGetIncomeStatement(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	dre, err := f.service.GetIncomeStatement(f.ctx, f.accountID, january)
	require.NoError(t, err)

	assertDecimal(t, "1000", dre.GrossRevenue, "gross revenue")
	assertDecimal(t, "50", dre.Deductions, "deductions")
	assertDecimal(t, "950", dre.NetRevenue, "net revenue")
	assertDecimal(t, "300", dre.CostOfGoods, "cost of goods")
	assertDecimal(t, "650", dre.GrossProfit, "gross profit")
	assertDecimal(t, "300", dre.OperatingExpenses, "operating expenses")
	assertDecimal(t, "350", dre.OperatingResult, "operating result")
	assertDecimal(t, "-20", dre.FinancialResult, "financial result")
	assertDecimal(t, "0", dre.NonOperating, "non operating")
	assertDecimal(t, "330", dre.PreTaxResult, "pre-tax")
	assertDecimal(t, "60", dre.Taxes, "taxes")
	assertDecimal(t, "270", dre.NetResult, "net result")
}

func TestGetAnalysis(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	a, err := f.service.GetAnalysis(f.ctx, f.accountID, january)
	require.NoError(t, err)

	assertDecimal(t, "1000", a.Revenue, "revenue")
	assertDecimal(t, "400", a.VariableCosts, "variable costs")
	assertDecimal(t, "600", a.ContributionMargin, "contribution margin")
	assertDecimal(t, "60", a.ContributionMarginPct, "contribution margin pct")
	assertDecimal(t, "35", a.OperatingResultPct, "operating pct")
	assertDecimal(t, "27", a.NetResultPct, "net pct")
}

func TestGetAnalysis_ZeroRevenue(t *testing.T) {
	f := newFixture(t)
	f.tx(t, day(2024, time.January, 3), 40, domain.MovementDebit, "Aluguel", true)

	a, err := f.service.GetAnalysis(f.ctx, f.accountID, january)
	require.NoError(t, err)
	assert.True(t, a.Revenue.IsZero())
	assert.True(t, a.ContributionMarginPct.IsZero())
	assert.True(t, a.OperatingResultPct.IsZero())
	assert.True(t, a.NetResultPct.IsZero())
}

func TestGetAnalysis_Rounding(t *testing.T) {
	f := newFixture(t)
	f.tx(t, day(2024, time.January, 3), 3, domain.MovementCredit, "Vendas", true)
	f.tx(t, day(2024, time.January, 4), 1, domain.MovementDebit, "Aluguel", true)

	a, err := f.service.GetAnalysis(f.ctx, f.accountID, january)
	require.NoError(t, err)
	assertDecimal(t, "66.67", a.OperatingResultPct, "operating pct")
	assertDecimal(t, "100", a.ContributionMarginPct, "contribution margin pct")
}

func TestGetDailyFlow(t *testing.T) {
	f := newFixture(t)
	f.seedJanuary(t)

	points, err := f.service.GetDailyFlow(f.ctx, f.accountID, january)
	require.NoError(t, err)
	require.Len(t, points, 31)

	assert.Equal(t, day(2024, time.January, 1), points[0].Date)
	assert.Equal(t, day(2024, time.January, 31), points[30].Date)
	assert.True(t, points[0].Net.IsZero())

	sixth := points[5]
	assert.Equal(t, day(2024, time.January, 6), sixth.Date)
	assertDecimal(t, "0", sixth.Income, "income on 6th")
	assertDecimal(t, "350", sixth.Expense, "expense on 6th")
	assertDecimal(t, "-350", sixth.Net, "net on 6th")

	seventh := points[6]
	assert.True(t, seventh.Income.IsZero(), "unreconciled transaction is ignored")
}

func TestReports_InvalidRange(t *testing.T) {
	f := newFixture(t)
	backwards := domain.DateRange{From: day(2024, time.February, 1), To: day(2024, time.January, 1)}

	_, err := f.service.GetCashFlow(f.ctx, f.accountID, backwards)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.service.GetIncomeStatement(f.ctx, f.accountID, backwards)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.service.GetAnalysis(f.ctx, f.accountID, backwards)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.service.GetDailyFlow(f.ctx, f.accountID, domain.DateRange{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
