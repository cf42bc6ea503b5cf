package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LeadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Leads persisted, by form source.",
		},
		[]string{"form_source"},
	)

	// LeadMirrorResults counts best-effort CRM and sheet mirror attempts.
	LeadMirrorResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_mirror_results_total",
			Help: "Lead mirror attempts, by target and result.",
		},
		[]string{"target", "result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Stored uploads, by backend and result.",
		},
		[]string{"backend", "result"},
	)
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
