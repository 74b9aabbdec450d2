package upstream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction is a transaction record as returned by the remote service.
// It is read-only data; the client never creates or mutates it.
type Transaction struct {
	ID       uuid.UUID       `json:"id" validate:"required"`
	UserID   uuid.UUID       `json:"user_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"max=3"`
	TxnDate  Timestamp       `json:"txn_date"`
	Status   string          `json:"status" validate:"max=32"`
	MetaData map[string]any  `json:"meta_data,omitempty"`
}

// ListTransactionsResult is a single page of transactions. An empty Cursor
// means the server has no further pages.
type ListTransactionsResult struct {
	Transactions []Transaction `json:"transactions" validate:"required,dive"`
	Cursor       string        `json:"cursor"`
}

// HasMore reports whether the server issued a cursor for a next page.
func (r *ListTransactionsResult) HasMore() bool {
	return r != nil && r.Cursor != ""
}

type healthResponse struct {
	Health *string `json:"health" validate:"required"`
}

type usersResponse struct {
	Users []string `json:"users" validate:"required"`
}

// timestampLayouts are tried in order. Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is an ISO-8601 timestamp that tolerates the common variants
// emitted by JSON APIs (with or without zone, fractional seconds, or a
// space separator).
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
