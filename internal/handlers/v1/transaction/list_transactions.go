package transaction

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/anomaly-gateway/internal/logging"
	"github.com/carson-networks/anomaly-gateway/internal/upstream"
)

// ListTransactionsInput is the Huma input for listing transactions.
// Optional filters that are not sent are not forwarded either, so the
// upstream service applies its own defaults.
type ListTransactionsInput struct {
	UserID    string `query:"user_id" required:"true" doc:"Owning user UUID"`
	FromDate  string `query:"from_date" format:"date-time" doc:"Lower bound on transaction date, upstream default is 30 days ago"`
	ToDate    string `query:"to_date" format:"date-time" doc:"Upper bound on transaction date, upstream default is now"`
	MinAmount string `query:"min_amount" doc:"Minimum decimal amount, upstream default is 0.00"`
	MaxAmount string `query:"max_amount" doc:"Maximum decimal amount, upstream default is 10000000000.00"`
	Limit     string `query:"limit" doc:"Page size, upstream default is 100"`
	Cursor    string `query:"cursor" doc:"Opaque cursor from a previous response"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Page of transactions"`
	NextCursor   string        `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, filters upstream.TransactionFilters) *upstream.ListTransactionsResult
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	Lister transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(lister transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{Lister: lister}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns one page of a user's transactions from the anomaly detection service using cursor-based pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput converts query strings into upstream filters.
// Only syntax is checked; ranges and the user ID are left to the upstream.
func parseListTransactionsInput(input *ListTransactionsInput) (upstream.TransactionFilters, error) {
	filters := upstream.TransactionFilters{
		UserID: input.UserID,
		Cursor: input.Cursor,
	}

	if input.FromDate != "" {
		fromDate, err := time.Parse(time.RFC3339, input.FromDate)
		if err != nil {
			return filters, huma.NewError(http.StatusBadRequest, "invalid from_date", err)
		}
		filters.FromDate = &fromDate
	}

	if input.ToDate != "" {
		toDate, err := time.Parse(time.RFC3339, input.ToDate)
		if err != nil {
			return filters, huma.NewError(http.StatusBadRequest, "invalid to_date", err)
		}
		filters.ToDate = &toDate
	}

	if input.MinAmount != "" {
		minAmount, err := decimal.NewFromString(input.MinAmount)
		if err != nil {
			return filters, huma.NewError(http.StatusBadRequest, "invalid min_amount", err)
		}
		filters.MinAmount = &minAmount
	}

	if input.MaxAmount != "" {
		maxAmount, err := decimal.NewFromString(input.MaxAmount)
		if err != nil {
			return filters, huma.NewError(http.StatusBadRequest, "invalid max_amount", err)
		}
		filters.MaxAmount = &maxAmount
	}

	if input.Limit != "" {
		limit, err := strconv.Atoi(input.Limit)
		if err != nil {
			return filters, huma.NewError(http.StatusBadRequest, "invalid limit", err)
		}
		filters.Limit = &limit
	}

	return filters, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	filters, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	if logData != nil {
		logData.AddData("userID", filters.UserID)
	}
	result := h.Lister.ListTransactions(ctx, filters)
	if result == nil {
		return nil, huma.NewError(http.StatusBadGateway, "failed to list transactions from upstream")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(result.Transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(result.Transactions)),
	}
	if result.HasMore() {
		resp.NextCursor = result.Cursor
	}

	for i, tx := range result.Transactions {
		resp.Transactions[i] = Transaction{
			ID:       tx.ID.String(),
			UserID:   tx.UserID.String(),
			Amount:   tx.Amount.String(),
			Currency: tx.Currency,
			Status:   tx.Status,
			MetaData: tx.MetaData,
		}
		if !tx.TxnDate.IsZero() {
			resp.Transactions[i].TransactionDate = tx.TxnDate.UTC().Format(time.RFC3339)
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
