package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"agentready/internal/model"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentready_checks_total",
			Help: "Total number of compliance checks by outcome",
		},
		[]string{"passed", "grade"},
	)

	ComplianceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agentready_compliance_score",
			Help:    "Overall compliance score of checked pages",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	FetchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agentready_fetch_latency_seconds",
			Help:    "Latency of initial payload fetches",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// NewRegistry returns a registry holding every collector of this package.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, ChecksTotal, ComplianceScore, FetchLatency)
	return reg
}

// ObserveResults records the outcome of finished checks.
func ObserveResults(results ...model.ComplianceResult) {
	for _, r := range results {
		ChecksTotal.WithLabelValues(strconv.FormatBool(r.Passed), r.Grade).Inc()
		ComplianceScore.Observe(r.OverallScore)
		FetchLatency.Observe(float64(r.FetchLatencyMs) / 1000)
	}
}
