package grpc

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/bookkeeper-backend/internal/adapter/repository/memory"
	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/forecast"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/ledger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/seeder"
)

const testToken = "test-token"

type nopArchive struct{}

func (nopArchive) Put(_ context.Context, key string, _ []byte) (string, error) {
	return "mem://" + key, nil
}

func (nopArchive) Delete(context.Context, string) error { return nil }

// startServer serves a memory-backed BookkeeperService over bufconn and
// returns a connection to it
func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	return startServerWithLog(t, zerolog.Nop())
}

func startServerWithLog(t *testing.T, log zerolog.Logger) *grpc.ClientConn {
	t.Helper()

	store := memory.NewStore()
	clock := domain.ClockFunc(func() time.Time {
		return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	})
	srv := NewServer(
		forecast.NewForecastService(store, clock, 12),
		reconciliation.NewImportService(store, clock, nopArchive{}),
		report.NewReportService(store, nil),
		ledger.NewLedgerService(store, clock),
		seeder.NewCategorySeeder(store.Categories()),
	)

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := NewGRPCServer(srv, testToken, log)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_ForecastLifecycle(t *testing.T) {
	ctx := context.Background()
	client := NewClient(startServer(t), testToken, uuid.New())

	bank, err := client.CreateBankAccount(ctx, &CreateBankAccountRequest{Name: "Checking"})
	require.NoError(t, err)

	created, err := client.CreateForecast(ctx, &CreateForecastRequest{
		Description:   "Notebook",
		Value:         "300.00",
		Kind:          "DEBIT",
		BankAccountID: bank.BankAccount.ID,
		StartDate:     "2024-01-31",
		Installments:  3,
	})
	require.NoError(t, err)
	require.Len(t, created.ForecastIDs, 3)

	list, err := client.ListForecasts(ctx, &ListForecastsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Forecasts, 3)
	assert.Equal(t, "2024-01-31", list.Forecasts[0].Date)
	assert.Equal(t, "2024-02-29", list.Forecasts[1].Date)
	assert.Equal(t, "(1/3)", list.Forecasts[0].Label)

	realized, err := client.RealizeForecast(ctx, &RealizeForecastRequest{
		ForecastID:    created.ForecastIDs[0],
		EffectiveDate: "2024-02-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-02", realized.Transaction.Date)
	assert.False(t, realized.Transaction.Reconciled)

	_, err = client.RealizeForecast(ctx, &RealizeForecastRequest{ForecastID: created.ForecastIDs[0]})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err), "second realization is rejected")

	txs, err := client.ListTransactions(ctx, &ListTransactionsRequest{})
	require.NoError(t, err)
	assert.Len(t, txs.Transactions, 1)

	deleted, err := client.DeleteForecast(ctx, &DeleteForecastRequest{ForecastID: created.ForecastIDs[1], Mode: "future"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted.Deleted)

	_, err = client.DeleteForecast(ctx, &DeleteForecastRequest{ForecastID: created.ForecastIDs[1]})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_ImportReplace(t *testing.T) {
	ctx := context.Background()
	client := NewClient(startServer(t), testToken, uuid.New())

	bank, err := client.CreateBankAccount(ctx, &CreateBankAccountRequest{Name: "Checking"})
	require.NoError(t, err)
	manual, err := client.RecordTransaction(ctx, &RecordTransactionRequest{
		Date:          "2024-03-01",
		Description:   "manual entry",
		Value:         "50",
		Kind:          "CREDIT",
		BankAccountID: bank.BankAccount.ID,
	})
	require.NoError(t, err)

	plan, err := client.PlanImport(ctx, &PlanImportRequest{
		BankAccountID: bank.BankAccount.ID,
		Candidates: []Candidate{
			{Date: "2024-03-01", Description: "X", Value: "50.00", Kind: "CREDIT"},
			{Date: "2024-03-02", Description: "Y", Value: "10", Kind: "DEBIT"},
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Conflicts, 1)
	require.Len(t, plan.Clean, 1)
	assert.Equal(t, manual.Transaction.ID, plan.Conflicts[0].Existing.ID)
	assert.Equal(t, "keep", plan.Conflicts[0].Resolution)

	plan.Conflicts[0].Resolution = "replace"
	result, err := client.CommitImport(ctx, &CommitImportRequest{
		BankAccountID: bank.BankAccount.ID,
		Clean:         plan.Clean,
		Conflicts:     plan.Conflicts,
		FileName:      "march.csv",
		Content:       []byte("date,description,amount\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Replaced)
	assert.False(t, result.NothingToImport)

	txs, err := client.ListTransactions(ctx, &ListTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, txs.Transactions, 2)
	for _, tx := range txs.Transactions {
		assert.NotEqual(t, manual.Transaction.ID, tx.ID)
		assert.True(t, tx.Reconciled)
		assert.Equal(t, result.ImportBatchID, tx.ImportID)
	}

	cf, err := client.GetCashFlow(ctx, &ReportRequest{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "50", cf.TotalIncome)
	assert.Equal(t, "10", cf.TotalExpense)
	assert.Equal(t, "40", cf.ClosingBalance)

	batches, err := client.ListImportBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches.Batches, 1)
	assert.Equal(t, "march.csv", batches.Batches[0].FileName)
	assert.Equal(t, 2, batches.Batches[0].TransactionCount)

	undone, err := client.DeleteImportBatch(ctx, &DeleteImportBatchRequest{ImportBatchID: result.ImportBatchID})
	require.NoError(t, err)
	assert.Equal(t, 2, undone.Deleted)
}

func TestServer_ImportReplaceRejectsForeignTransaction(t *testing.T) {
	ctx := context.Background()
	client := NewClient(startServer(t), testToken, uuid.New())

	checking, err := client.CreateBankAccount(ctx, &CreateBankAccountRequest{Name: "Checking"})
	require.NoError(t, err)
	savings, err := client.CreateBankAccount(ctx, &CreateBankAccountRequest{Name: "Savings"})
	require.NoError(t, err)
	rent, err := client.RecordTransaction(ctx, &RecordTransactionRequest{
		Date:          "2023-01-05",
		Description:   "rent",
		Value:         "999",
		Kind:          "DEBIT",
		BankAccountID: savings.BankAccount.ID,
	})
	require.NoError(t, err)

	_, err = client.CommitImport(ctx, &CommitImportRequest{
		BankAccountID: checking.BankAccount.ID,
		Conflicts: []Conflict{{
			Candidate:  Candidate{Date: "2024-03-01", Description: "X", Value: "50", Kind: "CREDIT"},
			Existing:   Transaction{ID: rent.Transaction.ID},
			Resolution: "replace",
		}},
		FileName: "march.csv",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	txs, err := client.ListTransactions(ctx, &ListTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, txs.Transactions, 1)
	assert.Equal(t, rent.Transaction.ID, txs.Transactions[0].ID)
}

func TestServer_AccountIsolation(t *testing.T) {
	ctx := context.Background()
	conn := startServer(t)
	alice := NewClient(conn, testToken, uuid.New())
	bob := NewClient(conn, testToken, uuid.New())

	bank, err := alice.CreateBankAccount(ctx, &CreateBankAccountRequest{Name: "Checking"})
	require.NoError(t, err)

	_, err = bob.RecordTransaction(ctx, &RecordTransactionRequest{
		Date:          "2024-03-01",
		Description:   "not mine",
		Value:         "1",
		Kind:          "DEBIT",
		BankAccountID: bank.BankAccount.ID,
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	banks, err := bob.ListBankAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, banks.BankAccounts)
}

func TestServer_RequestValidation(t *testing.T) {
	ctx := context.Background()
	conn := startServer(t)

	_, err := NewClient(conn, "wrong", uuid.New()).ListBankAccounts(ctx)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	client := NewClient(conn, testToken, uuid.New())

	_, err = client.RealizeForecast(ctx, &RealizeForecastRequest{ForecastID: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.CreateForecast(ctx, &CreateForecastRequest{
		Description:   "bad",
		Value:         "10",
		Kind:          "SIDEWAYS",
		BankAccountID: uuid.NewString(),
		StartDate:     "2024-01-01",
		Installments:  1,
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetCashFlow(ctx, &ReportRequest{From: "2024-03-31", To: "2024-03-01"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

// lockedBuffer lets the server goroutine and the test share log output
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_LogsRejectedCalls(t *testing.T) {
	ctx := context.Background()
	var logs lockedBuffer
	conn := startServerWithLog(t, logger.NewWithWriter(&logs))
	accountID := uuid.New()

	_, err := NewClient(conn, "wrong", accountID).ListBankAccounts(ctx)
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	out := logs.String()
	assert.Contains(t, out, "ListBankAccounts")
	assert.Contains(t, out, "Unauthenticated")
	assert.Contains(t, out, accountID.String())
	assert.NotContains(t, out, "wrong", "the token is never logged")
}

func TestServer_SeedCategories(t *testing.T) {
	ctx := context.Background()
	client := NewClient(startServer(t), testToken, uuid.New())

	first, err := client.SeedCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seeder.DefaultChart), first.Created)

	second, err := client.SeedCategories(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Created)

	cats, err := client.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats.Categories, len(seeder.DefaultChart))
}
