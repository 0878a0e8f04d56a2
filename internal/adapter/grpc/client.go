package grpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Client calls BookkeeperService on behalf of one account
type Client struct {
	conn      grpc.ClientConnInterface
	token     string
	accountID uuid.UUID
}

// NewClient creates a client over an existing connection
func NewClient(conn grpc.ClientConnInterface, token string, accountID uuid.UUID) *Client {
	return &Client{conn: conn, token: token, accountID: accountID}
}

// Dial opens a plaintext connection negotiating the JSON codec
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return conn, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	ctx = metadata.AppendToOutgoingContext(ctx,
		AuthorizationHeader, c.token,
		AccountHeader, c.accountID.String(),
	)
	return c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp, grpc.CallContentSubtype(CodecName))
}

func (c *Client) CreateForecast(ctx context.Context, req *CreateForecastRequest) (*CreateForecastResponse, error) {
	resp := new(CreateForecastResponse)
	return resp, c.invoke(ctx, "CreateForecast", req, resp)
}

func (c *Client) RealizeForecast(ctx context.Context, req *RealizeForecastRequest) (*RealizeForecastResponse, error) {
	resp := new(RealizeForecastResponse)
	return resp, c.invoke(ctx, "RealizeForecast", req, resp)
}

func (c *Client) DeleteForecast(ctx context.Context, req *DeleteForecastRequest) (*DeleteForecastResponse, error) {
	resp := new(DeleteForecastResponse)
	return resp, c.invoke(ctx, "DeleteForecast", req, resp)
}

func (c *Client) ExtendSeries(ctx context.Context, req *ExtendSeriesRequest) (*ExtendSeriesResponse, error) {
	resp := new(ExtendSeriesResponse)
	return resp, c.invoke(ctx, "ExtendSeries", req, resp)
}

func (c *Client) ListForecasts(ctx context.Context, req *ListForecastsRequest) (*ListForecastsResponse, error) {
	resp := new(ListForecastsResponse)
	return resp, c.invoke(ctx, "ListForecasts", req, resp)
}

func (c *Client) RecordTransaction(ctx context.Context, req *RecordTransactionRequest) (*TransactionResponse, error) {
	resp := new(TransactionResponse)
	return resp, c.invoke(ctx, "RecordTransaction", req, resp)
}

func (c *Client) UpdateTransaction(ctx context.Context, req *UpdateTransactionRequest) (*TransactionResponse, error) {
	resp := new(TransactionResponse)
	return resp, c.invoke(ctx, "UpdateTransaction", req, resp)
}

func (c *Client) SetReconciled(ctx context.Context, req *SetReconciledRequest) error {
	return c.invoke(ctx, "SetReconciled", req, new(Empty))
}

func (c *Client) DeleteTransaction(ctx context.Context, req *DeleteTransactionRequest) error {
	return c.invoke(ctx, "DeleteTransaction", req, new(Empty))
}

func (c *Client) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	resp := new(ListTransactionsResponse)
	return resp, c.invoke(ctx, "ListTransactions", req, resp)
}

func (c *Client) PlanImport(ctx context.Context, req *PlanImportRequest) (*PlanImportResponse, error) {
	resp := new(PlanImportResponse)
	return resp, c.invoke(ctx, "PlanImport", req, resp)
}

func (c *Client) CommitImport(ctx context.Context, req *CommitImportRequest) (*CommitImportResponse, error) {
	resp := new(CommitImportResponse)
	return resp, c.invoke(ctx, "CommitImport", req, resp)
}

func (c *Client) ListImportBatches(ctx context.Context) (*ListImportBatchesResponse, error) {
	resp := new(ListImportBatchesResponse)
	return resp, c.invoke(ctx, "ListImportBatches", &Empty{}, resp)
}

func (c *Client) DeleteImportBatch(ctx context.Context, req *DeleteImportBatchRequest) (*DeleteImportBatchResponse, error) {
	resp := new(DeleteImportBatchResponse)
	return resp, c.invoke(ctx, "DeleteImportBatch", req, resp)
}

func (c *Client) GetCashFlow(ctx context.Context, req *ReportRequest) (*CashFlowResponse, error) {
	resp := new(CashFlowResponse)
	return resp, c.invoke(ctx, "GetCashFlow", req, resp)
}

func (c *Client) GetIncomeStatement(ctx context.Context, req *ReportRequest) (*IncomeStatementResponse, error) {
	resp := new(IncomeStatementResponse)
	return resp, c.invoke(ctx, "GetIncomeStatement", req, resp)
}

func (c *Client) GetAnalysis(ctx context.Context, req *ReportRequest) (*AnalysisResponse, error) {
	resp := new(AnalysisResponse)
	return resp, c.invoke(ctx, "GetAnalysis", req, resp)
}

func (c *Client) GetDailyFlow(ctx context.Context, req *ReportRequest) (*DailyFlowResponse, error) {
	resp := new(DailyFlowResponse)
	return resp, c.invoke(ctx, "GetDailyFlow", req, resp)
}

func (c *Client) CreateBankAccount(ctx context.Context, req *CreateBankAccountRequest) (*BankAccountResponse, error) {
	resp := new(BankAccountResponse)
	return resp, c.invoke(ctx, "CreateBankAccount", req, resp)
}

func (c *Client) ListBankAccounts(ctx context.Context) (*ListBankAccountsResponse, error) {
	resp := new(ListBankAccountsResponse)
	return resp, c.invoke(ctx, "ListBankAccounts", &Empty{}, resp)
}

func (c *Client) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error) {
	resp := new(CategoryResponse)
	return resp, c.invoke(ctx, "CreateCategory", req, resp)
}

func (c *Client) ListCategories(ctx context.Context) (*ListCategoriesResponse, error) {
	resp := new(ListCategoriesResponse)
	return resp, c.invoke(ctx, "ListCategories", &Empty{}, resp)
}

func (c *Client) SeedCategories(ctx context.Context) (*SeedCategoriesResponse, error) {
	resp := new(SeedCategoriesResponse)
	return resp, c.invoke(ctx, "SeedCategories", &Empty{}, resp)
}
