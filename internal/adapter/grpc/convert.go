package grpc

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/forecast"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/ledger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
)

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field, err)
	}
	return id, nil
}

func parseOptionalID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(field, s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field, err)
	}
	return d, nil
}

func parseOptionalDate(field, s string) (civil.Date, error) {
	if s == "" {
		return civil.Date{}, nil
	}
	return parseDate(field, s)
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field, err)
	}
	return v, nil
}

func parseKind(s string) (domain.MovementKind, error) {
	kind, err := domain.ParseMovementKind(s)
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "%v", err)
	}
	return kind, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func createForecastInputFromProto(req *CreateForecastRequest) (forecast.CreateForecastInput, error) {
	var input forecast.CreateForecastInput
	var err error

	if input.Value, err = parseAmount("value", req.Value); err != nil {
		return input, err
	}
	if input.Kind, err = parseKind(req.Kind); err != nil {
		return input, err
	}
	if input.BankAccountID, err = parseID("bank_account_id", req.BankAccountID); err != nil {
		return input, err
	}
	if input.CategoryID, err = parseOptionalID("category_id", req.CategoryID); err != nil {
		return input, err
	}
	if input.StartDate, err = parseDate("start_date", req.StartDate); err != nil {
		return input, err
	}

	input.Description = req.Description
	input.Installments = req.Installments
	input.FixedMonthly = req.FixedMonthly
	return input, nil
}

func recordInputFromProto(req *RecordTransactionRequest) (ledger.RecordInput, error) {
	var input ledger.RecordInput
	var err error

	if input.Date, err = parseOptionalDate("date", req.Date); err != nil {
		return input, err
	}
	if input.Value, err = parseAmount("value", req.Value); err != nil {
		return input, err
	}
	if input.Kind, err = parseKind(req.Kind); err != nil {
		return input, err
	}
	if input.BankAccountID, err = parseID("bank_account_id", req.BankAccountID); err != nil {
		return input, err
	}
	if input.CategoryID, err = parseOptionalID("category_id", req.CategoryID); err != nil {
		return input, err
	}

	input.Description = req.Description
	input.Reconciled = req.Reconciled
	return input, nil
}

func updateInputFromProto(req *UpdateTransactionRequest) (ledger.UpdateInput, error) {
	input := ledger.UpdateInput{
		Description:   req.Description,
		ClearCategory: req.ClearCategory,
	}

	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			return input, err
		}
		input.Date = &d
	}
	if req.Value != nil {
		v, err := parseAmount("value", *req.Value)
		if err != nil {
			return input, err
		}
		input.Value = &v
	}
	if req.Kind != nil {
		k, err := parseKind(*req.Kind)
		if err != nil {
			return input, err
		}
		input.Kind = &k
	}
	if req.BankAccountID != nil {
		id, err := parseID("bank_account_id", *req.BankAccountID)
		if err != nil {
			return input, err
		}
		input.BankAccountID = &id
	}
	if req.CategoryID != nil {
		id, err := parseID("category_id", *req.CategoryID)
		if err != nil {
			return input, err
		}
		input.CategoryID = &id
	}

	return input, nil
}

func candidateFromProto(c Candidate) (reconciliation.Candidate, error) {
	var out reconciliation.Candidate
	var err error

	if out.Date, err = parseDate("candidate date", c.Date); err != nil {
		return out, err
	}
	if out.Value, err = parseAmount("candidate value", c.Value); err != nil {
		return out, err
	}
	if out.Kind, err = parseKind(c.Kind); err != nil {
		return out, err
	}
	if out.CategoryID, err = parseOptionalID("candidate category_id", c.CategoryID); err != nil {
		return out, err
	}

	out.Description = c.Description
	return out, nil
}

func candidatesFromProto(in []Candidate) ([]reconciliation.Candidate, error) {
	out := make([]reconciliation.Candidate, 0, len(in))
	for _, c := range in {
		candidate, err := candidateFromProto(c)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate)
	}
	return out, nil
}

func conflictsFromProto(in []Conflict) ([]reconciliation.Conflict, error) {
	out := make([]reconciliation.Conflict, 0, len(in))
	for _, c := range in {
		candidate, err := candidateFromProto(c.Candidate)
		if err != nil {
			return nil, err
		}
		existingID, err := parseID("existing id", c.Existing.ID)
		if err != nil {
			return nil, err
		}
		resolution, err := reconciliation.ParseResolution(c.Resolution)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, reconciliation.Conflict{
			Candidate:  candidate,
			Existing:   &domain.Transaction{ID: existingID},
			Resolution: resolution,
		})
	}
	return out, nil
}

func candidateToProto(c reconciliation.Candidate) Candidate {
	return Candidate{
		Date:        c.Date.String(),
		Description: c.Description,
		Value:       c.Value.String(),
		Kind:        string(c.Kind),
		CategoryID:  optionalID(c.CategoryID),
	}
}

func planToProto(plan *reconciliation.Plan) *PlanImportResponse {
	resp := &PlanImportResponse{
		BankAccountID: plan.BankAccountID.String(),
		Clean:         make([]Candidate, 0, len(plan.Clean)),
		Conflicts:     make([]Conflict, 0, len(plan.Conflicts)),
	}
	for _, c := range plan.Clean {
		resp.Clean = append(resp.Clean, candidateToProto(c))
	}
	for _, c := range plan.Conflicts {
		resp.Conflicts = append(resp.Conflicts, Conflict{
			Candidate:  candidateToProto(c.Candidate),
			Existing:   transactionToProto(c.Existing),
			Resolution: string(c.Resolution),
		})
	}
	return resp
}

func transactionToProto(tx *domain.Transaction) Transaction {
	return Transaction{
		ID:            tx.ID.String(),
		Date:          tx.Date.String(),
		Description:   tx.Description,
		Value:         tx.Value.String(),
		Kind:          string(tx.Kind),
		CategoryID:    optionalID(tx.CategoryID),
		BankAccountID: tx.BankAccountID.String(),
		Reconciled:    tx.Reconciled,
		ImportID:      optionalID(tx.ImportID),
	}
}

func forecastToProto(f *domain.Forecast) Forecast {
	return Forecast{
		ID:                 f.ID.String(),
		Date:               f.Date.String(),
		Description:        f.Description,
		Value:              f.Value.String(),
		Kind:               string(f.Kind),
		CategoryID:         optionalID(f.CategoryID),
		BankAccountID:      f.BankAccountID.String(),
		Realized:           f.Realized,
		InstallmentCurrent: f.InstallmentCurrent,
		InstallmentTotal:   f.InstallmentTotal,
		GroupID:            optionalID(f.GroupID),
		Label:              f.InstallmentLabel(),
	}
}

func importBatchToProto(b *domain.ImportBatch) ImportBatch {
	return ImportBatch{
		ID:               b.ID.String(),
		FileName:         b.FileName,
		ImportedAt:       b.ImportedAt.UTC().Format(time.RFC3339),
		BankAccountID:    b.BankAccountID.String(),
		TransactionCount: b.TransactionCount,
		SourceURI:        b.SourceURI,
	}
}

func bankAccountToProto(a *domain.BankAccount) BankAccount {
	return BankAccount{ID: a.ID.String(), Name: a.Name, Institution: a.Institution}
}

func categoryToProto(c *domain.Category) Category {
	return Category{ID: c.ID.String(), Name: c.Name, Kind: string(c.Kind)}
}

func categoryTotalsToProto(in []report.CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(in))
	for _, t := range in {
		out = append(out, CategoryTotal{
			CategoryID:   optionalID(t.CategoryID),
			CategoryName: t.CategoryName,
			Total:        t.Total.String(),
		})
	}
	return out
}

func cashFlowToProto(cf *report.CashFlowReport) *CashFlowResponse {
	return &CashFlowResponse{
		OpeningBalance:   cf.OpeningBalance.String(),
		TotalIncome:      cf.TotalIncome.String(),
		TotalExpense:     cf.TotalExpense.String(),
		ClosingBalance:   cf.ClosingBalance.String(),
		Income:           categoryTotalsToProto(cf.Income),
		Expense:          categoryTotalsToProto(cf.Expense),
		ProjectedIncome:  cf.ProjectedIncome.String(),
		ProjectedExpense: cf.ProjectedExpense.String(),
		ProjectedClosing: cf.ProjectedClosing.String(),
	}
}

func incomeStatementToProto(dre *report.IncomeStatement) *IncomeStatementResponse {
	return &IncomeStatementResponse{
		GrossRevenue:      dre.GrossRevenue.String(),
		Deductions:        dre.Deductions.String(),
		NetRevenue:        dre.NetRevenue.String(),
		CostOfGoods:       dre.CostOfGoods.String(),
		GrossProfit:       dre.GrossProfit.String(),
		OperatingExpenses: dre.OperatingExpenses.String(),
		OperatingResult:   dre.OperatingResult.String(),
		FinancialResult:   dre.FinancialResult.String(),
		NonOperating:      dre.NonOperating.String(),
		PreTaxResult:      dre.PreTaxResult.String(),
		Taxes:             dre.Taxes.String(),
		NetResult:         dre.NetResult.String(),
	}
}

func analysisToProto(a *report.Analysis) *AnalysisResponse {
	return &AnalysisResponse{
		Revenue:               a.Revenue.String(),
		VariableCosts:         a.VariableCosts.String(),
		ContributionMargin:    a.ContributionMargin.String(),
		ContributionMarginPct: a.ContributionMarginPct.String(),
		OperatingResultPct:    a.OperatingResultPct.String(),
		NetResultPct:          a.NetResultPct.String(),
	}
}

func dailyFlowToProto(points []report.DailyPoint) *DailyFlowResponse {
	resp := &DailyFlowResponse{Points: make([]DailyPoint, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, DailyPoint{
			Date:    p.Date.String(),
			Income:  p.Income.String(),
			Expense: p.Expense.String(),
			Net:     p.Net.String(),
		})
	}
	return resp
}
