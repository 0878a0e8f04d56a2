package grpc

// Wire messages. Money travels as decimal strings and days as YYYY-MM-DD.

type Empty struct{}

type Transaction struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Value         string `json:"value"`
	Kind          string `json:"kind"`
	CategoryID    string `json:"category_id,omitempty"`
	BankAccountID string `json:"bank_account_id"`
	Reconciled    bool   `json:"reconciled"`
	ImportID      string `json:"import_id,omitempty"`
}

type Forecast struct {
	ID                 string `json:"id"`
	Date               string `json:"date"`
	Description        string `json:"description"`
	Value              string `json:"value"`
	Kind               string `json:"kind"`
	CategoryID         string `json:"category_id,omitempty"`
	BankAccountID      string `json:"bank_account_id"`
	Realized           bool   `json:"realized"`
	InstallmentCurrent *int   `json:"installment_current,omitempty"`
	InstallmentTotal   *int   `json:"installment_total,omitempty"`
	GroupID            string `json:"group_id,omitempty"`
	Label              string `json:"label,omitempty"`
}

type BankAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

type ImportBatch struct {
	ID               string `json:"id"`
	FileName         string `json:"file_name"`
	ImportedAt       string `json:"imported_at"`
	BankAccountID    string `json:"bank_account_id"`
	TransactionCount int    `json:"transaction_count"`
	SourceURI        string `json:"source_uri,omitempty"`
}

type Candidate struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Kind        string `json:"kind"`
	CategoryID  string `json:"category_id,omitempty"`
}

type Conflict struct {
	Candidate  Candidate   `json:"candidate"`
	Existing   Transaction `json:"existing"`
	Resolution string      `json:"resolution"`
}

// Forecasts

type CreateForecastRequest struct {
	Description   string `json:"description"`
	Value         string `json:"value"`
	Kind          string `json:"kind"`
	BankAccountID string `json:"bank_account_id"`
	CategoryID    string `json:"category_id,omitempty"`
	StartDate     string `json:"start_date"`
	Installments  int    `json:"installments"`
	FixedMonthly  bool   `json:"fixed_monthly"`
	RealizeFirst  bool   `json:"realize_first"`
}

type CreateForecastResponse struct {
	ForecastIDs   []string `json:"forecast_ids"`
	TransactionID string   `json:"transaction_id,omitempty"`
	GroupID       string   `json:"group_id,omitempty"`
}

type RealizeForecastRequest struct {
	ForecastID    string `json:"forecast_id"`
	EffectiveDate string `json:"effective_date,omitempty"`
}

type RealizeForecastResponse struct {
	Transaction Transaction `json:"transaction"`
}

type DeleteForecastRequest struct {
	ForecastID string `json:"forecast_id"`
	Mode       string `json:"mode,omitempty"`
}

type DeleteForecastResponse struct {
	Deleted int `json:"deleted"`
}

type ExtendSeriesRequest struct {
	GroupID string `json:"group_id"`
	Count   int    `json:"count"`
}

type ExtendSeriesResponse struct {
	ForecastIDs []string `json:"forecast_ids"`
}

type ListForecastsRequest struct {
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	IncludeRealized bool   `json:"include_realized"`
	GroupID         string `json:"group_id,omitempty"`
}

type ListForecastsResponse struct {
	Forecasts []Forecast `json:"forecasts"`
}

// Transactions

type RecordTransactionRequest struct {
	Date          string `json:"date,omitempty"`
	Description   string `json:"description"`
	Value         string `json:"value"`
	Kind          string `json:"kind"`
	BankAccountID string `json:"bank_account_id"`
	CategoryID    string `json:"category_id,omitempty"`
	Reconciled    bool   `json:"reconciled"`
}

type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type UpdateTransactionRequest struct {
	TransactionID string  `json:"transaction_id"`
	Date          *string `json:"date,omitempty"`
	Description   *string `json:"description,omitempty"`
	Value         *string `json:"value,omitempty"`
	Kind          *string `json:"kind,omitempty"`
	BankAccountID *string `json:"bank_account_id,omitempty"`
	CategoryID    *string `json:"category_id,omitempty"`
	ClearCategory bool    `json:"clear_category"`
}

type SetReconciledRequest struct {
	TransactionID string `json:"transaction_id"`
	Reconciled    bool   `json:"reconciled"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type ListTransactionsRequest struct {
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	BankAccountID  string `json:"bank_account_id,omitempty"`
	ReconciledOnly bool   `json:"reconciled_only"`
}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Imports

type PlanImportRequest struct {
	BankAccountID string      `json:"bank_account_id"`
	Candidates    []Candidate `json:"candidates"`
}

type PlanImportResponse struct {
	BankAccountID string      `json:"bank_account_id"`
	Clean         []Candidate `json:"clean"`
	Conflicts     []Conflict  `json:"conflicts"`
}

type CommitImportRequest struct {
	BankAccountID string      `json:"bank_account_id"`
	Clean         []Candidate `json:"clean"`
	Conflicts     []Conflict  `json:"conflicts"`
	FileName      string      `json:"file_name"`
	Content       []byte      `json:"content,omitempty"`
}

type CommitImportResponse struct {
	ImportBatchID   string `json:"import_batch_id,omitempty"`
	Inserted        int    `json:"inserted"`
	Replaced        int    `json:"replaced"`
	Kept            int    `json:"kept"`
	NothingToImport bool   `json:"nothing_to_import"`
}

type ListImportBatchesResponse struct {
	Batches []ImportBatch `json:"batches"`
}

type DeleteImportBatchRequest struct {
	ImportBatchID string `json:"import_batch_id"`
}

type DeleteImportBatchResponse struct {
	Deleted int `json:"deleted"`
}

// Reports

type ReportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type CategoryTotal struct {
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name"`
	Total        string `json:"total"`
}

type CashFlowResponse struct {
	OpeningBalance   string          `json:"opening_balance"`
	TotalIncome      string          `json:"total_income"`
	TotalExpense     string          `json:"total_expense"`
	ClosingBalance   string          `json:"closing_balance"`
	Income           []CategoryTotal `json:"income"`
	Expense          []CategoryTotal `json:"expense"`
	ProjectedIncome  string          `json:"projected_income"`
	ProjectedExpense string          `json:"projected_expense"`
	ProjectedClosing string          `json:"projected_closing"`
}

type IncomeStatementResponse struct {
	GrossRevenue      string `json:"gross_revenue"`
	Deductions        string `json:"deductions"`
	NetRevenue        string `json:"net_revenue"`
	CostOfGoods       string `json:"cost_of_goods"`
	GrossProfit       string `json:"gross_profit"`
	OperatingExpenses string `json:"operating_expenses"`
	OperatingResult   string `json:"operating_result"`
	FinancialResult   string `json:"financial_result"`
	NonOperating      string `json:"non_operating"`
	PreTaxResult      string `json:"pre_tax_result"`
	Taxes             string `json:"taxes"`
	NetResult         string `json:"net_result"`
}

type AnalysisResponse struct {
	Revenue               string `json:"revenue"`
	VariableCosts         string `json:"variable_costs"`
	ContributionMargin    string `json:"contribution_margin"`
	ContributionMarginPct string `json:"contribution_margin_pct"`
	OperatingResultPct    string `json:"operating_result_pct"`
	NetResultPct          string `json:"net_result_pct"`
}

type DailyPoint struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

type DailyFlowResponse struct {
	Points []DailyPoint `json:"points"`
}

// Reference data

type CreateBankAccountRequest struct {
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
}

type BankAccountResponse struct {
	BankAccount BankAccount `json:"bank_account"`
}

type ListBankAccountsResponse struct {
	BankAccounts []BankAccount `json:"bank_accounts"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

type CategoryResponse struct {
	Category Category `json:"category"`
}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type SeedCategoriesResponse struct {
	Created int `json:"created"`
}
