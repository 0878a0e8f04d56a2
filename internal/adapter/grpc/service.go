package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "bookkeeper.v1.BookkeeperService"

// BookkeeperServer is the server API for BookkeeperService
type BookkeeperServer interface {
	CreateForecast(context.Context, *CreateForecastRequest) (*CreateForecastResponse, error)
	RealizeForecast(context.Context, *RealizeForecastRequest) (*RealizeForecastResponse, error)
	DeleteForecast(context.Context, *DeleteForecastRequest) (*DeleteForecastResponse, error)
	ExtendSeries(context.Context, *ExtendSeriesRequest) (*ExtendSeriesResponse, error)
	ListForecasts(context.Context, *ListForecastsRequest) (*ListForecastsResponse, error)

	RecordTransaction(context.Context, *RecordTransactionRequest) (*TransactionResponse, error)
	UpdateTransaction(context.Context, *UpdateTransactionRequest) (*TransactionResponse, error)
	SetReconciled(context.Context, *SetReconciledRequest) (*Empty, error)
	DeleteTransaction(context.Context, *DeleteTransactionRequest) (*Empty, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)

	PlanImport(context.Context, *PlanImportRequest) (*PlanImportResponse, error)
	CommitImport(context.Context, *CommitImportRequest) (*CommitImportResponse, error)
	ListImportBatches(context.Context, *Empty) (*ListImportBatchesResponse, error)
	DeleteImportBatch(context.Context, *DeleteImportBatchRequest) (*DeleteImportBatchResponse, error)

	GetCashFlow(context.Context, *ReportRequest) (*CashFlowResponse, error)
	GetIncomeStatement(context.Context, *ReportRequest) (*IncomeStatementResponse, error)
	GetAnalysis(context.Context, *ReportRequest) (*AnalysisResponse, error)
	GetDailyFlow(context.Context, *ReportRequest) (*DailyFlowResponse, error)

	CreateBankAccount(context.Context, *CreateBankAccountRequest) (*BankAccountResponse, error)
	ListBankAccounts(context.Context, *Empty) (*ListBankAccountsResponse, error)
	CreateCategory(context.Context, *CreateCategoryRequest) (*CategoryResponse, error)
	ListCategories(context.Context, *Empty) (*ListCategoriesResponse, error)
	SeedCategories(context.Context, *Empty) (*SeedCategoriesResponse, error)
}

// unary builds the method descriptor of one unary RPC
func unary[Req, Resp any](name string, call func(BookkeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BookkeeperServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(BookkeeperServer), ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes BookkeeperService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookkeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateForecast", BookkeeperServer.CreateForecast),
		unary("RealizeForecast", BookkeeperServer.RealizeForecast),
		unary("DeleteForecast", BookkeeperServer.DeleteForecast),
		unary("ExtendSeries", BookkeeperServer.ExtendSeries),
		unary("ListForecasts", BookkeeperServer.ListForecasts),
		unary("RecordTransaction", BookkeeperServer.RecordTransaction),
		unary("UpdateTransaction", BookkeeperServer.UpdateTransaction),
		unary("SetReconciled", BookkeeperServer.SetReconciled),
		unary("DeleteTransaction", BookkeeperServer.DeleteTransaction),
		unary("ListTransactions", BookkeeperServer.ListTransactions),
		unary("PlanImport", BookkeeperServer.PlanImport),
		unary("CommitImport", BookkeeperServer.CommitImport),
		unary("ListImportBatches", BookkeeperServer.ListImportBatches),
		unary("DeleteImportBatch", BookkeeperServer.DeleteImportBatch),
		unary("GetCashFlow", BookkeeperServer.GetCashFlow),
		unary("GetIncomeStatement", BookkeeperServer.GetIncomeStatement),
		unary("GetAnalysis", BookkeeperServer.GetAnalysis),
		unary("GetDailyFlow", BookkeeperServer.GetDailyFlow),
		unary("CreateBankAccount", BookkeeperServer.CreateBankAccount),
		unary("ListBankAccounts", BookkeeperServer.ListBankAccounts),
		unary("CreateCategory", BookkeeperServer.CreateCategory),
		unary("ListCategories", BookkeeperServer.ListCategories),
		unary("SeedCategories", BookkeeperServer.SeedCategories),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookkeeper/v1/bookkeeper.proto",
}

// RegisterBookkeeperServer registers the service implementation on s
func RegisterBookkeeperServer(s grpc.ServiceRegistrar, srv BookkeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}
