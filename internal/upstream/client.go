package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/anomaly-gateway/internal/logging"
)

// DefaultBaseURL is the production anomaly detection service.
const DefaultBaseURL = "https://anomaly-detection-server-0-0-1.onrender.com"

const healthOK = "ok"

const (
	opHealth       = "health"
	opTransactions = "transactions"
	opUsers        = "users"
)

var validate = validator.New()

// Doer is the part of *http.Client the Client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the anomaly detection service. It keeps no state between
// calls and is safe for concurrent use.
//
// CheckHealth, ListTransactions and ListUsers never return errors: failures
// are logged and mapped to false or an absent result. FetchHealth,
// FetchTransactions and FetchUsers return the same data with a typed error
// (*TransportError, *DecodeError or *ShapeError) instead.
type Client struct {
	baseURL    string
	httpClient Doer
	logger     *logrus.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which has no timeout.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for failures and non-2xx warnings.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables request metrics. Without it nothing is recorded.
func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckHealth reports whether the service answers /health with "ok".
func (c *Client) CheckHealth(ctx context.Context) bool {
	health, err := c.FetchHealth(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("op", opHealth).Error("Error checking health")
		return false
	}
	return health == healthOK
}

// ListTransactions returns one page of transactions, or nil if the call
// failed for any reason.
func (c *Client) ListTransactions(ctx context.Context, filters TransactionFilters) *ListTransactionsResult {
	result, err := c.FetchTransactions(ctx, filters)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"op":     opTransactions,
			"userID": filters.UserID,
		}).Error("Error fetching transactions")
		return nil
	}
	return result
}

// ListUsers returns the known user IDs. The bool is false if the call failed,
// which is distinct from the service reporting no users.
func (c *Client) ListUsers(ctx context.Context) ([]string, bool) {
	users, err := c.FetchUsers(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("op", opUsers).Error("Error fetching users")
		return nil, false
	}
	return users, true
}

// FetchHealth returns the raw value of the health field.
func (c *Client) FetchHealth(ctx context.Context) (string, error) {
	var resp healthResponse
	if err := c.get(ctx, opHealth, "/health", "", &resp); err != nil {
		return "", err
	}
	return *resp.Health, nil
}

func (c *Client) FetchTransactions(ctx context.Context, filters TransactionFilters) (*ListTransactionsResult, error) {
	var resp ListTransactionsResult
	if err := c.get(ctx, opTransactions, "/transactions", filters.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FetchUsers(ctx context.Context) ([]string, error) {
	var resp usersResponse
	if err := c.get(ctx, opUsers, "/users", "", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// get times the call into the request's LogData as upstreamMs, summed over
// every upstream call made while serving that request.
func (c *Client) get(ctx context.Context, op, path, query string, out any) error {
	if logData := logging.GetLogData(ctx); logData != nil {
		defer logData.AddToExistingTiming("upstreamMs")()
	}

	start := time.Now()
	err := c.doGet(ctx, op, path, query, out)
	c.metrics.observe(op, start, err)
	return err
}

// doGet issues the request and decodes the body into out whatever the
// status code. A non-2xx response with a JSON body is treated as a
// success; it is only logged and counted.
func (c *Client) doGet(ctx context.Context, op, path, query string, out any) error {
	target := c.baseURL + path
	if query != "" {
		target += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observeStatus(op, resp.StatusCode)
		c.logger.WithFields(logrus.Fields{
			"op":         op,
			"statusCode": resp.StatusCode,
		}).Warn("Upstream.NonSuccessStatus")
	}

	if !json.Valid(body) {
		var raw json.RawMessage
		return &DecodeError{Op: op, StatusCode: resp.StatusCode, Err: json.Unmarshal(body, &raw)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ShapeError{Op: op, Err: err}
	}

	if err := validate.Struct(out); err != nil {
		return &ShapeError{Op: op, Err: err}
	}

	return nil
}
