package report

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// UncategorizedName labels totals of transactions without a category
const UncategorizedName = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the sum of one category within a report
type CategoryTotal struct {
	CategoryID   *uuid.UUID
	CategoryName string
	Total        decimal.Decimal
}

// CashFlowReport is the reconciled cash movement over a range
type CashFlowReport struct {
	Range          domain.DateRange
	OpeningBalance decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	ClosingBalance decimal.Decimal
	Income         []CategoryTotal
	Expense        []CategoryTotal

	// Unrealized forecasts dated inside the range
	ProjectedIncome  decimal.Decimal
	ProjectedExpense decimal.Decimal
	ProjectedClosing decimal.Decimal
}

// IncomeStatement is the simplified income statement (DRE)
type IncomeStatement struct {
	Range             domain.DateRange
	GrossRevenue      decimal.Decimal
	Deductions        decimal.Decimal
	NetRevenue        decimal.Decimal
	CostOfGoods       decimal.Decimal
	GrossProfit       decimal.Decimal
	OperatingExpenses decimal.Decimal
	OperatingResult   decimal.Decimal
	FinancialResult   decimal.Decimal
	NonOperating      decimal.Decimal
	PreTaxResult      decimal.Decimal
	Taxes             decimal.Decimal
	NetResult         decimal.Decimal
}

// Analysis holds margin KPIs as percentages of gross revenue
type Analysis struct {
	Range                 domain.DateRange
	Revenue               decimal.Decimal
	VariableCosts         decimal.Decimal
	ContributionMargin    decimal.Decimal
	ContributionMarginPct decimal.Decimal
	OperatingResultPct    decimal.Decimal
	NetResultPct          decimal.Decimal
}

// DailyPoint is one calendar day of the daily flow
type DailyPoint struct {
	Date    civil.Date
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// ReportService computes read-only reports over reconciled transactions
type ReportService struct {
	Ledger     domain.Ledger
	Classifier *Classifier
}

// NewReportService creates a new ReportService instance.
// A nil classifier uses the default keyword table.
func NewReportService(ledger domain.Ledger, classifier *Classifier) *ReportService {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &ReportService{
		Ledger:     ledger,
		Classifier: classifier,
	}
}

// GetCashFlow computes the cash flow for the range
// Logic:
//   - Opening: signed sum of reconciled transactions strictly before From
//   - Income/Expense: reconciled credits/debits inside the range, per category
//   - Closing: Opening + Income - Expense
//   - Projected: unrealized forecasts inside the range applied on top of Closing
func (s *ReportService) GetCashFlow(ctx context.Context, accountID uuid.UUID, r domain.DateRange) (*CashFlowReport, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	before, err := s.Ledger.Transactions().List(ctx, accountID, domain.TransactionFilter{
		To:             r.From.AddDays(-1),
		ReconciledOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions before range: %w", err)
	}

	txs, err := s.reconciledIn(ctx, accountID, r)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, accountID)
	if err != nil {
		return nil, err
	}

	report := &CashFlowReport{
		Range:            r,
		OpeningBalance:   decimal.Zero,
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		ProjectedIncome:  decimal.Zero,
		ProjectedExpense: decimal.Zero,
	}

	for _, tx := range before {
		report.OpeningBalance = report.OpeningBalance.Add(tx.SignedValue())
	}

	income := newCategorySums()
	expense := newCategorySums()
	for _, tx := range txs {
		if tx.Kind == domain.MovementCredit {
			report.TotalIncome = report.TotalIncome.Add(tx.Value)
			income.add(tx.CategoryID, tx.Value)
		} else {
			report.TotalExpense = report.TotalExpense.Add(tx.Value)
			expense.add(tx.CategoryID, tx.Value)
		}
	}
	report.Income = income.totals(names)
	report.Expense = expense.totals(names)
	report.ClosingBalance = report.OpeningBalance.Add(report.TotalIncome).Sub(report.TotalExpense)

	forecasts, err := s.Ledger.Forecasts().List(ctx, accountID, domain.ForecastFilter{From: r.From, To: r.To})
	if err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	for _, f := range forecasts {
		if f.Realized {
			continue
		}
		if f.Kind == domain.MovementCredit {
			report.ProjectedIncome = report.ProjectedIncome.Add(f.Value)
		} else {
			report.ProjectedExpense = report.ProjectedExpense.Add(f.Value)
		}
	}
	report.ProjectedClosing = report.ClosingBalance.Add(report.ProjectedIncome).Sub(report.ProjectedExpense)

	return report, nil
}

// GetIncomeStatement buckets reconciled transactions by category name keywords
func (s *ReportService) GetIncomeStatement(ctx context.Context, accountID uuid.UUID, r domain.DateRange) (*IncomeStatement, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	txs, err := s.reconciledIn(ctx, accountID, r)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryNames(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return s.incomeStatement(r, txs, names), nil
}

// GetAnalysis computes contribution margin, operating result and net result
// as percentages of gross revenue. Every percentage is 0 when revenue is 0.
func (s *ReportService) GetAnalysis(ctx context.Context, accountID uuid.UUID, r domain.DateRange) (*Analysis, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	txs, err := s.reconciledIn(ctx, accountID, r)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryNames(ctx, accountID)
	if err != nil {
		return nil, err
	}

	dre := s.incomeStatement(r, txs, names)

	variable := decimal.Zero
	for _, tx := range txs {
		name := categoryName(names, tx.CategoryID)
		if s.Classifier.IsVariableCost(name) {
			// credits in a cost category are refunds
			variable = variable.Sub(tx.SignedValue())
		}
	}

	margin := dre.GrossRevenue.Sub(variable)
	return &Analysis{
		Range:                 r,
		Revenue:               dre.GrossRevenue,
		VariableCosts:         variable,
		ContributionMargin:    margin,
		ContributionMarginPct: percentOf(margin, dre.GrossRevenue),
		OperatingResultPct:    percentOf(dre.OperatingResult, dre.GrossRevenue),
		NetResultPct:          percentOf(dre.NetResult, dre.GrossRevenue),
	}, nil
}

// GetDailyFlow sums reconciled transactions per day. Every day of the range
// is present, days without movement carry zeros.
func (s *ReportService) GetDailyFlow(ctx context.Context, accountID uuid.UUID, r domain.DateRange) ([]DailyPoint, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	txs, err := s.reconciledIn(ctx, accountID, r)
	if err != nil {
		return nil, err
	}

	points := make([]DailyPoint, 0, r.To.DaysSince(r.From)+1)
	index := make(map[civil.Date]int)
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		index[d] = len(points)
		points = append(points, DailyPoint{Date: d, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero})
	}

	for _, tx := range txs {
		i, ok := index[tx.Date]
		if !ok {
			continue
		}
		p := &points[i]
		if tx.Kind == domain.MovementCredit {
			p.Income = p.Income.Add(tx.Value)
		} else {
			p.Expense = p.Expense.Add(tx.Value)
		}
		p.Net = p.Income.Sub(p.Expense)
	}

	return points, nil
}

func (s *ReportService) incomeStatement(r domain.DateRange, txs []*domain.Transaction, names map[uuid.UUID]string) *IncomeStatement {
	sums := map[Bucket]decimal.Decimal{}
	for _, tx := range txs {
		bucket := s.Classifier.Classify(categoryName(names, tx.CategoryID), tx.Kind)
		sums[bucket] = sums[bucket].Add(tx.SignedValue())
	}

	// Revenue, financial and non-operating lines are credit positive,
	// every other line is reported as a positive cost
	dre := &IncomeStatement{
		Range:             r,
		GrossRevenue:      sums[BucketRevenue],
		Deductions:        sums[BucketDeductions].Neg(),
		CostOfGoods:       sums[BucketCostOfGoods].Neg(),
		OperatingExpenses: sums[BucketOperatingExpense].Neg(),
		FinancialResult:   sums[BucketFinancial],
		NonOperating:      sums[BucketNonOperating],
		Taxes:             sums[BucketTaxes].Neg(),
	}
	dre.NetRevenue = dre.GrossRevenue.Sub(dre.Deductions)
	dre.GrossProfit = dre.NetRevenue.Sub(dre.CostOfGoods)
	dre.OperatingResult = dre.GrossProfit.Sub(dre.OperatingExpenses)
	dre.PreTaxResult = dre.OperatingResult.Add(dre.FinancialResult).Add(dre.NonOperating)
	dre.NetResult = dre.PreTaxResult.Sub(dre.Taxes)
	return dre
}

func (s *ReportService) reconciledIn(ctx context.Context, accountID uuid.UUID, r domain.DateRange) ([]*domain.Transaction, error) {
	txs, err := s.Ledger.Transactions().List(ctx, accountID, domain.TransactionFilter{
		From:           r.From,
		To:             r.To,
		ReconciledOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (s *ReportService) categoryNames(ctx context.Context, accountID uuid.UUID) (map[uuid.UUID]string, error) {
	categories, err := s.Ledger.Categories().List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func categoryName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func percentOf(metric, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return metric.Div(revenue).Mul(hundred).Round(2)
}

type categorySums struct {
	order []uuid.UUID
	sums  map[uuid.UUID]decimal.Decimal
}

func newCategorySums() *categorySums {
	return &categorySums{sums: make(map[uuid.UUID]decimal.Decimal)}
}

// add accumulates under the category id, uuid.Nil for uncategorized
func (c *categorySums) add(id *uuid.UUID, value decimal.Decimal) {
	key := uuid.Nil
	if id != nil {
		key = *id
	}
	if _, ok := c.sums[key]; !ok {
		c.order = append(c.order, key)
	}
	c.sums[key] = c.sums[key].Add(value)
}

// totals returns the sums largest first, ties by name
func (c *categorySums) totals(names map[uuid.UUID]string) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(c.order))
	for _, key := range c.order {
		total := CategoryTotal{CategoryName: UncategorizedName, Total: c.sums[key]}
		if key != uuid.Nil {
			id := key
			total.CategoryID = &id
			if name, ok := names[key]; ok {
				total.CategoryName = name
			}
		}
		out = append(out, total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].Total.Cmp(out[j].Total); cmp != 0 {
			return cmp > 0
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}
