package upstream

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the outcome of every upstream call. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	non2xx   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total requests to the anomaly detection service",
			},
			[]string{"endpoint", "outcome"},
		),
		non2xx: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_non_2xx_total",
				Help: "Responses from the anomaly detection service outside the 2xx range",
			},
			[]string{"endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Latency of requests to the anomaly detection service.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}

	reg.MustRegister(m.requests, m.non2xx, m.duration)
	return m
}

func (m *Metrics) observe(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeStatus(endpoint string, status int) {
	if m == nil {
		return
	}
	m.non2xx.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
