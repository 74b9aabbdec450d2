package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/anomaly-gateway/internal/logging"
)

const (
	upstreamOK          = "ok"
	upstreamUnavailable = "unavailable"
)

// HealthResponseBody is the response body for the upstream health check.
type HealthResponseBody struct {
	Healthy  bool   `json:"healthy" doc:"True when the anomaly detection service reports ok"`
	Upstream string `json:"upstream" enum:"ok,unavailable" doc:"Upstream health summary"`
}

// HealthOutput is the Huma output for the upstream health check.
type HealthOutput struct {
	Body HealthResponseBody
}

// healthChecker is the interface for probing the upstream service.
type healthChecker interface {
	CheckHealth(ctx context.Context) bool
}

// HealthHandler handles GET /v1/health.
type HealthHandler struct {
	Checker healthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker healthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

// Register registers the health endpoint with the Huma API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-upstream-health",
		Method:      http.MethodGet,
		Path:        "/v1/health",
		Summary:     "Upstream health",
		Description: "Reports whether the anomaly detection service is healthy. Always answers 200; the healthy flag is the signal.",
		Tags:        []string{"Health"},
	}, h.handle)
}

func (h *HealthHandler) handle(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	healthy := h.Checker.CheckHealth(ctx)

	resp := HealthResponseBody{Healthy: healthy, Upstream: upstreamUnavailable}
	if healthy {
		resp.Upstream = upstreamOK
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("upstreamHealthy", healthy)
	}

	return &HealthOutput{Body: resp}, nil
}
