package transaction

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string         `json:"id" doc:"Transaction UUID"`
	UserID          string         `json:"userID" doc:"Owning user UUID"`
	Amount          string         `json:"amount" doc:"Decimal amount"`
	Currency        string         `json:"currency" maxLength:"3" doc:"ISO 4217 currency code"`
	TransactionDate string         `json:"transactionDate,omitempty" doc:"RFC3339 transaction date, absent when the upstream sent none"`
	Status          string         `json:"status" maxLength:"32" doc:"Transaction status"`
	MetaData        map[string]any `json:"metaData,omitempty" doc:"Free-form metadata attached by the anomaly detection service"`
}
