// Package metrics exposes Prometheus instruments for backend calls and HTTP traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	backendCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savings_backend_calls_total",
		Help: "Backend calls made through the savings facade, labeled by result",
	}, []string{"mode", "op", "result"})

	backendCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "savings_backend_call_duration_seconds",
		Help:    "Latency of backend calls up to submission (ledger) or commit (relational)",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"mode", "op"})

	operationsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savings_operations_settled_total",
		Help: "Mutating operations that reached a final state",
	}, []string{"mode", "kind", "state"})

	operationsPending = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "savings_operations_pending",
		Help: "Mutating operations submitted but not yet confirmed or failed",
	}, []string{"mode"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savings_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "savings_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})
)

// ObserveCall records one backend call. err == nil counts as success.
func ObserveCall(mode, op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	backendCallsTotal.WithLabelValues(mode, op, result).Inc()
	backendCallDuration.WithLabelValues(mode, op).Observe(time.Since(started).Seconds())
}

func OperationStarted(mode string) {
	operationsPending.WithLabelValues(mode).Inc()
}

func OperationSettled(mode, kind, state string) {
	operationsPending.WithLabelValues(mode).Dec()
	operationsSettled.WithLabelValues(mode, kind, state).Inc()
}

func ObserveHTTP(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
