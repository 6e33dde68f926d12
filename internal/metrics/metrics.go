// Package metrics defines the Prometheus collectors exported by anisearch.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search lifecycle metrics
var (
	SearchesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "anisearch_searches_submitted_total",
			Help: "Total number of non-blank queries submitted.",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anisearch_searches_total",
			Help: "Total number of completed searches by outcome (success, failed, stale).",
		},
		[]string{"outcome"},
	)
)

// Catalog client metrics
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anisearch_catalog_requests_total",
			Help: "Total number of catalog HTTP requests by status code.",
		},
		[]string{"code"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anisearch_catalog_request_duration_seconds",
			Help:    "Catalog HTTP request latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(
		SearchesSubmitted,
		SearchesTotal,
		CatalogRequestsTotal,
		CatalogRequestDuration,
	)
}

// InstrumentTransport wraps next so every catalog request is counted and
// timed. A nil next wraps http.DefaultTransport.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(CatalogRequestsTotal,
		promhttp.InstrumentRoundTripperDuration(CatalogRequestDuration, next))
}
