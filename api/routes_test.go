package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/anomaly-gateway/internal/handlers/v1/transaction"
	"github.com/carson-networks/anomaly-gateway/internal/upstream"
)

const testUserID = "6f1c2a52-8a39-4a43-9c55-0f3a4a3f1b7e"

func newFakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"health":"ok"}`)
		case "/users":
			_, _ = io.WriteString(w, `{"users":["`+testUserID+`"]}`)
		case "/transactions":
			_, _ = io.WriteString(w, `{"transactions":[{"id":"0b7d5d0e-4a8e-4a4f-9a55-3f5b8f3f6b1a","user_id":"`+
				r.URL.Query().Get("user_id")+`","amount":99.99,"currency":"USD","txn_date":"2025-06-01T12:00:00Z","status":"flagged"}],"cursor":"next"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRest(t *testing.T, upstreamURL string) http.Handler {
	t.Helper()
	logger, _ := test.NewNullLogger()
	registry := prometheus.NewRegistry()
	rest := &Rest{
		Logger:         logger,
		Port:           "0",
		AllowedOrigins: []string{"http://localhost:5173"},
		Upstream: upstream.NewClient(upstreamURL,
			upstream.WithLogger(logger),
			upstream.WithMetrics(upstream.NewMetrics(registry)),
		),
		Gatherer: registry,
	}
	return rest.Router()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_Status(t *testing.T) {
	router := newTestRest(t, "http://upstream.invalid")

	resp := get(t, router, "/status")

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouter_EndToEnd(t *testing.T) {
	router := newTestRest(t, newFakeUpstream(t).URL)

	healthResp := get(t, router, "/v1/health")
	assert.Equal(t, http.StatusOK, healthResp.Code)
	assert.Contains(t, healthResp.Body.String(), `"healthy":true`)

	usersResp := get(t, router, "/v1/users")
	assert.Equal(t, http.StatusOK, usersResp.Code)
	assert.Contains(t, usersResp.Body.String(), testUserID)

	txResp := get(t, router, "/v1/transactions?user_id="+testUserID+"&min_amount=0")
	require.Equal(t, http.StatusOK, txResp.Code)
	var body transaction.ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(txResp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, testUserID, body.Transactions[0].UserID)
	assert.Equal(t, "99.99", body.Transactions[0].Amount)
	assert.Equal(t, "next", body.NextCursor)

	metricsResp := get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, metricsResp.Code)
	assert.Contains(t, metricsResp.Body.String(), `upstream_requests_total{endpoint="transactions",outcome="ok"} 1`)
}

func TestRouter_UpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()
	router := newTestRest(t, downURL)

	healthResp := get(t, router, "/v1/health")
	assert.Equal(t, http.StatusOK, healthResp.Code)
	assert.Contains(t, healthResp.Body.String(), `"healthy":false`)

	assert.Equal(t, http.StatusBadGateway, get(t, router, "/v1/users").Code)
	assert.Equal(t, http.StatusBadGateway, get(t, router, "/v1/transactions?user_id="+testUserID).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRest(t, "http://upstream.invalid")
	req := httptest.NewRequest(http.MethodOptions, "/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
