package health

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHealthChecker struct {
	mock.Mock
}

func (m *mockHealthChecker) CheckHealth(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func newTestAPI(t *testing.T, checker healthChecker) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHealthHandler(checker).Register(api)
	return api
}

func TestHTTP_Health_Healthy(t *testing.T) {
	checker := new(mockHealthChecker)
	checker.On("CheckHealth", mock.Anything).Return(true)

	resp := newTestAPI(t, checker).Get("/v1/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body HealthResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Healthy)
	assert.Equal(t, "ok", body.Upstream)
	checker.AssertExpectations(t)
}

func TestHTTP_Health_Unavailable(t *testing.T) {
	checker := new(mockHealthChecker)
	checker.On("CheckHealth", mock.Anything).Return(false)

	resp := newTestAPI(t, checker).Get("/v1/health")

	// The probe result is carried in the body, not the status code.
	assert.Equal(t, http.StatusOK, resp.Code)
	var body HealthResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Healthy)
	assert.Equal(t, "unavailable", body.Upstream)
	checker.AssertExpectations(t)
}
