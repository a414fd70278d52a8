// Package metrics holds the prometheus collectors shared across the
// application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// DetectionsTotal counts phishing detections by dispatch path
	// (upi, heuristic, ensemble) and verdict (safe, phishing).
	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrguard_detections_total",
		Help: "Phishing detections by dispatch path and verdict.",
	}, []string{"path", "verdict"})

	// ReputationLookupsTotal counts reputation-source lookups by source name
	// and outcome (safe, unsafe, no_opinion, error).
	ReputationLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrguard_reputation_lookups_total",
		Help: "Reputation source lookups by source and outcome.",
	}, []string{"source", "outcome"})

	// QRDecodesTotal counts QR decode attempts by outcome
	// (decoded, not_found, error).
	QRDecodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrguard_qr_decodes_total",
		Help: "QR decode attempts by outcome.",
	}, []string{"outcome"})

	// HTTPRequestDuration observes request latency per route and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qrguard_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status code.",
		Buckets: DefaultBuckets,
	}, []string{"route", "code"})

	// HTTPRequestsInFlight tracks currently running HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qrguard_http_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})
)
