package upstream

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// isoLayout matches the millisecond UTC form produced by browsers.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// TransactionFilters describes a /transactions query. Nil pointers are
// "not provided" and are left out of the query; a pointer to a zero value
// is provided and is sent. Values are forwarded as-is, without validation.
//
// When a filter is not sent the service applies its own default: from_date
// 30 days ago, to_date now, min_amount 0.00, max_amount 10000000000.00 and
// limit 100. The client never fills these in.
type TransactionFilters struct {
	UserID    string
	FromDate  *time.Time
	ToDate    *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Limit     *int
	Cursor    string
}

type queryParam struct {
	key   string
	value string
}

func (f TransactionFilters) params() []queryParam {
	params := []queryParam{{"user_id", f.UserID}}

	if f.FromDate != nil {
		params = append(params, queryParam{"from_date", f.FromDate.UTC().Format(isoLayout)})
	}
	if f.ToDate != nil {
		params = append(params, queryParam{"to_date", f.ToDate.UTC().Format(isoLayout)})
	}
	if f.MinAmount != nil {
		params = append(params, queryParam{"min_amount", f.MinAmount.String()})
	}
	if f.MaxAmount != nil {
		params = append(params, queryParam{"max_amount", f.MaxAmount.String()})
	}
	if f.Limit != nil {
		params = append(params, queryParam{"limit", strconv.Itoa(*f.Limit)})
	}
	if f.Cursor != "" {
		params = append(params, queryParam{"cursor", f.Cursor})
	}

	return params
}

// Encode renders the query string. Unlike url.Values.Encode the parameter
// order is fixed: user_id, from_date, to_date, min_amount, max_amount,
// limit, cursor.
func (f TransactionFilters) Encode() string {
	var sb strings.Builder
	for i, p := range f.params() {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}
