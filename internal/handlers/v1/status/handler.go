package status

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carson-networks/anomaly-gateway/internal/logging"
)

// Handler answers the local liveness probe. It does not contact the
// upstream service; /v1/health does that.
type Handler struct {
	startedAt time.Time
}

func NewHandler() Handler {
	return Handler{startedAt: time.Now()}
}

type statusBody struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	uptime := int64(time.Since(h.startedAt).Seconds())
	logData.AddData("uptimeSeconds", uptime)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(statusBody{Status: "ok", UptimeSeconds: uptime})
}
