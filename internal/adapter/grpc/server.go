package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/forecast"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/ledger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/seeder"
)

// Server implements the BookkeeperService gRPC server
type Server struct {
	ForecastService *forecast.ForecastService
	ImportService   *reconciliation.ImportService
	ReportService   *report.ReportService
	LedgerService   *ledger.LedgerService
	CategorySeeder  *seeder.CategorySeeder
}

// NewServer creates a new gRPC server instance
func NewServer(
	forecastService *forecast.ForecastService,
	importService *reconciliation.ImportService,
	reportService *report.ReportService,
	ledgerService *ledger.LedgerService,
	categorySeeder *seeder.CategorySeeder,
) *Server {
	return &Server{
		ForecastService: forecastService,
		ImportService:   importService,
		ReportService:   reportService,
		LedgerService:   ledgerService,
		CategorySeeder:  categorySeeder,
	}
}

var _ BookkeeperServer = (*Server)(nil)

// CreateForecast handles the CreateForecast RPC
func (s *Server) CreateForecast(ctx context.Context, req *CreateForecastRequest) (*CreateForecastResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	input, err := createForecastInputFromProto(req)
	if err != nil {
		return nil, err
	}

	if req.RealizeFirst {
		result, err := s.ForecastService.CreateRealizingFirst(ctx, accountID, input)
		if err != nil {
			return nil, mapError(err)
		}
		return &CreateForecastResponse{
			ForecastIDs:   idStrings(result.ForecastIDs),
			TransactionID: result.TransactionID.String(),
			GroupID:       optionalID(result.GroupID),
		}, nil
	}

	ids, err := s.ForecastService.CreateForecast(ctx, accountID, input)
	if err != nil {
		return nil, mapError(err)
	}
	return &CreateForecastResponse{ForecastIDs: idStrings(ids)}, nil
}

// RealizeForecast handles the RealizeForecast RPC
func (s *Server) RealizeForecast(ctx context.Context, req *RealizeForecastRequest) (*RealizeForecastResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	forecastID, err := parseID("forecast_id", req.ForecastID)
	if err != nil {
		return nil, err
	}
	effective, err := parseOptionalDate("effective_date", req.EffectiveDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.ForecastService.RealizeForecast(ctx, accountID, forecastID, effective)
	if err != nil {
		return nil, mapError(err)
	}
	return &RealizeForecastResponse{Transaction: transactionToProto(tx)}, nil
}

// DeleteForecast handles the DeleteForecast RPC
func (s *Server) DeleteForecast(ctx context.Context, req *DeleteForecastRequest) (*DeleteForecastResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	forecastID, err := parseID("forecast_id", req.ForecastID)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseDeletionMode(req.Mode)
	if err != nil {
		return nil, mapError(err)
	}

	deleted, err := s.ForecastService.DeleteForecast(ctx, accountID, forecastID, mode)
	if err != nil {
		return nil, mapError(err)
	}
	return &DeleteForecastResponse{Deleted: deleted}, nil
}

// ExtendSeries handles the ExtendSeries RPC
func (s *Server) ExtendSeries(ctx context.Context, req *ExtendSeriesRequest) (*ExtendSeriesResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	groupID, err := parseID("group_id", req.GroupID)
	if err != nil {
		return nil, err
	}

	ids, err := s.ForecastService.ExtendSeries(ctx, accountID, groupID, req.Count)
	if err != nil {
		return nil, mapError(err)
	}
	return &ExtendSeriesResponse{ForecastIDs: idStrings(ids)}, nil
}

// ListForecasts handles the ListForecasts RPC. A group id lists one series.
func (s *Server) ListForecasts(ctx context.Context, req *ListForecastsRequest) (*ListForecastsResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	var forecasts []*domain.Forecast
	if req.GroupID != "" {
		groupID, err := parseID("group_id", req.GroupID)
		if err != nil {
			return nil, err
		}
		forecasts, err = s.ForecastService.ListGroup(ctx, accountID, groupID)
		if err != nil {
			return nil, mapError(err)
		}
	} else {
		from, err := parseOptionalDate("from", req.From)
		if err != nil {
			return nil, err
		}
		to, err := parseOptionalDate("to", req.To)
		if err != nil {
			return nil, err
		}
		forecasts, err = s.ForecastService.ListForecasts(ctx, accountID, domain.ForecastFilter{
			From:            from,
			To:              to,
			IncludeRealized: req.IncludeRealized,
		})
		if err != nil {
			return nil, mapError(err)
		}
	}

	resp := &ListForecastsResponse{Forecasts: make([]Forecast, 0, len(forecasts))}
	for _, f := range forecasts {
		resp.Forecasts = append(resp.Forecasts, forecastToProto(f))
	}
	return resp, nil
}

// RecordTransaction handles the RecordTransaction RPC
func (s *Server) RecordTransaction(ctx context.Context, req *RecordTransactionRequest) (*TransactionResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	input, err := recordInputFromProto(req)
	if err != nil {
		return nil, err
	}

	id, err := s.LedgerService.RecordTransaction(ctx, accountID, input)
	if err != nil {
		return nil, mapError(err)
	}
	tx, err := s.LedgerService.GetTransaction(ctx, accountID, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &TransactionResponse{Transaction: transactionToProto(tx)}, nil
}

// UpdateTransaction handles the UpdateTransaction RPC
func (s *Server) UpdateTransaction(ctx context.Context, req *UpdateTransactionRequest) (*TransactionResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseID("transaction_id", req.TransactionID)
	if err != nil {
		return nil, err
	}
	input, err := updateInputFromProto(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.LedgerService.UpdateTransaction(ctx, accountID, id, input)
	if err != nil {
		return nil, mapError(err)
	}
	return &TransactionResponse{Transaction: transactionToProto(tx)}, nil
}

// SetReconciled handles the SetReconciled RPC
func (s *Server) SetReconciled(ctx context.Context, req *SetReconciledRequest) (*Empty, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseID("transaction_id", req.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := s.LedgerService.SetReconciled(ctx, accountID, id, req.Reconciled); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

// DeleteTransaction handles the DeleteTransaction RPC
func (s *Server) DeleteTransaction(ctx context.Context, req *DeleteTransactionRequest) (*Empty, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseID("transaction_id", req.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := s.LedgerService.DeleteTransaction(ctx, accountID, id); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	filter := domain.TransactionFilter{ReconciledOnly: req.ReconciledOnly}
	if filter.From, err = parseOptionalDate("from", req.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate("to", req.To); err != nil {
		return nil, err
	}
	if filter.BankAccountID, err = parseOptionalID("bank_account_id", req.BankAccountID); err != nil {
		return nil, err
	}

	txs, err := s.LedgerService.ListTransactions(ctx, accountID, filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListTransactionsResponse{Transactions: make([]Transaction, 0, len(txs))}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, transactionToProto(tx))
	}
	return resp, nil
}

// PlanImport handles the PlanImport RPC
func (s *Server) PlanImport(ctx context.Context, req *PlanImportRequest) (*PlanImportResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	bankAccountID, err := parseID("bank_account_id", req.BankAccountID)
	if err != nil {
		return nil, err
	}
	candidates, err := candidatesFromProto(req.Candidates)
	if err != nil {
		return nil, err
	}

	plan, err := s.ImportService.PlanImport(ctx, accountID, bankAccountID, candidates)
	if err != nil {
		return nil, mapError(err)
	}
	return planToProto(plan), nil
}

// CommitImport handles the CommitImport RPC
func (s *Server) CommitImport(ctx context.Context, req *CommitImportRequest) (*CommitImportResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	bankAccountID, err := parseID("bank_account_id", req.BankAccountID)
	if err != nil {
		return nil, err
	}
	clean, err := candidatesFromProto(req.Clean)
	if err != nil {
		return nil, err
	}
	conflicts, err := conflictsFromProto(req.Conflicts)
	if err != nil {
		return nil, err
	}

	result, err := s.ImportService.CommitImport(ctx, accountID, reconciliation.CommitInput{
		BankAccountID: bankAccountID,
		Clean:         clean,
		Conflicts:     conflicts,
		File:          reconciliation.FileMeta{Name: req.FileName, Content: req.Content},
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &CommitImportResponse{
		ImportBatchID:   optionalID(result.ImportBatchID),
		Inserted:        result.Inserted,
		Replaced:        result.Replaced,
		Kept:            result.Kept,
		NothingToImport: result.NothingToImport(),
	}, nil
}

// ListImportBatches handles the ListImportBatches RPC
func (s *Server) ListImportBatches(ctx context.Context, _ *Empty) (*ListImportBatchesResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	batches, err := s.ImportService.ListImportBatches(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListImportBatchesResponse{Batches: make([]ImportBatch, 0, len(batches))}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, importBatchToProto(b))
	}
	return resp, nil
}

// DeleteImportBatch handles the DeleteImportBatch RPC
func (s *Server) DeleteImportBatch(ctx context.Context, req *DeleteImportBatchRequest) (*DeleteImportBatchResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	batchID, err := parseID("import_batch_id", req.ImportBatchID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.ImportService.DeleteImportBatch(ctx, accountID, batchID)
	if err != nil {
		return nil, mapError(err)
	}
	return &DeleteImportBatchResponse{Deleted: deleted}, nil
}

// GetCashFlow handles the GetCashFlow RPC
func (s *Server) GetCashFlow(ctx context.Context, req *ReportRequest) (*CashFlowResponse, error) {
	accountID, r, err := reportScope(ctx, req)
	if err != nil {
		return nil, err
	}

	cf, err := s.ReportService.GetCashFlow(ctx, accountID, r)
	if err != nil {
		return nil, mapError(err)
	}
	return cashFlowToProto(cf), nil
}

// GetIncomeStatement handles the GetIncomeStatement RPC
func (s *Server) GetIncomeStatement(ctx context.Context, req *ReportRequest) (*IncomeStatementResponse, error) {
	accountID, r, err := reportScope(ctx, req)
	if err != nil {
		return nil, err
	}

	dre, err := s.ReportService.GetIncomeStatement(ctx, accountID, r)
	if err != nil {
		return nil, mapError(err)
	}
	return incomeStatementToProto(dre), nil
}

// GetAnalysis handles the GetAnalysis RPC
func (s *Server) GetAnalysis(ctx context.Context, req *ReportRequest) (*AnalysisResponse, error) {
	accountID, r, err := reportScope(ctx, req)
	if err != nil {
		return nil, err
	}

	a, err := s.ReportService.GetAnalysis(ctx, accountID, r)
	if err != nil {
		return nil, mapError(err)
	}
	return analysisToProto(a), nil
}

// GetDailyFlow handles the GetDailyFlow RPC
func (s *Server) GetDailyFlow(ctx context.Context, req *ReportRequest) (*DailyFlowResponse, error) {
	accountID, r, err := reportScope(ctx, req)
	if err != nil {
		return nil, err
	}

	points, err := s.ReportService.GetDailyFlow(ctx, accountID, r)
	if err != nil {
		return nil, mapError(err)
	}
	return dailyFlowToProto(points), nil
}

// CreateBankAccount handles the CreateBankAccount RPC
func (s *Server) CreateBankAccount(ctx context.Context, req *CreateBankAccountRequest) (*BankAccountResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.CreateBankAccount(ctx, accountID, req.Name, req.Institution)
	if err != nil {
		return nil, mapError(err)
	}
	return &BankAccountResponse{BankAccount: bankAccountToProto(account)}, nil
}

// ListBankAccounts handles the ListBankAccounts RPC
func (s *Server) ListBankAccounts(ctx context.Context, _ *Empty) (*ListBankAccountsResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.LedgerService.ListBankAccounts(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListBankAccountsResponse{BankAccounts: make([]BankAccount, 0, len(accounts))}
	for _, a := range accounts {
		resp.BankAccounts = append(resp.BankAccounts, bankAccountToProto(a))
	}
	return resp, nil
}

// CreateCategory handles the CreateCategory RPC
func (s *Server) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	var kind domain.MovementKind
	if req.Kind != "" {
		if kind, err = domain.ParseMovementKind(req.Kind); err != nil {
			return nil, mapError(err)
		}
	}

	category, err := s.LedgerService.CreateCategory(ctx, accountID, req.Name, kind)
	if err != nil {
		return nil, mapError(err)
	}
	return &CategoryResponse{Category: categoryToProto(category)}, nil
}

// ListCategories handles the ListCategories RPC
func (s *Server) ListCategories(ctx context.Context, _ *Empty) (*ListCategoriesResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.LedgerService.ListCategories(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListCategoriesResponse{Categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, categoryToProto(c))
	}
	return resp, nil
}

// SeedCategories handles the SeedCategories RPC
func (s *Server) SeedCategories(ctx context.Context, _ *Empty) (*SeedCategoriesResponse, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.CategorySeeder.Seed(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	return &SeedCategoriesResponse{Created: created}, nil
}

func callerAccount(ctx context.Context) (uuid.UUID, error) {
	accountID, ok := AccountIDFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing account")
	}
	return accountID, nil
}

func reportScope(ctx context.Context, req *ReportRequest) (uuid.UUID, domain.DateRange, error) {
	accountID, err := callerAccount(ctx)
	if err != nil {
		return uuid.Nil, domain.DateRange{}, err
	}
	from, err := parseDate("from", req.From)
	if err != nil {
		return uuid.Nil, domain.DateRange{}, err
	}
	to, err := parseDate("to", req.To)
	if err != nil {
		return uuid.Nil, domain.DateRange{}, err
	}
	return accountID, domain.DateRange{From: from, To: to}, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	default:
		// Default to Internal error for unknown errors
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}

// NewGRPCServer builds a grpc.Server with the logging, auth and account
// interceptors and registers srv on it
func NewGRPCServer(srv BookkeeperServer, apiToken string, log zerolog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(apiToken),
			AccountInterceptor(),
		),
	}, opts...)

	server := grpc.NewServer(opts...)
	RegisterBookkeeperServer(server, srv)
	return server
}
