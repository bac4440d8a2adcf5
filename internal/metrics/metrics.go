// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package metrics provides Prometheus instrumentation for the gateway:
// API latency and throughput, upstream provider calls, the Gemini circuit
// breaker, the large-asset upload protocol, and ephemeral artifacts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Upstream provider metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "outcome"}, // outcome: "success", "error", "not_found"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream provider calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// Gemini circuit breaker state: 0=closed, 1=half-open, 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Large-asset upload protocol metrics
	UploadProtocolTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_uploads_total",
			Help: "Total number of large-asset upload protocol runs",
		},
		[]string{"outcome"}, // "active", "failed", "timeout", "error"
	)

	UploadPollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_upload_poll_attempts",
			Help:    "Number of poll attempts before an uploaded asset became ready",
			Buckets: []float64{1, 2, 3, 5, 10, 15, 20, 30},
		},
	)

	// Ephemeral artifact metrics
	TempFilesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "temp_files_created_total",
			Help: "Total number of ephemeral artifact files written",
		},
	)

	TempFilesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "temp_files_deleted_total",
			Help: "Total number of ephemeral artifact files removed by the sweeper",
		},
	)

	TempFilesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "temp_files_active",
			Help: "Current number of ephemeral artifact files on disk",
		},
	)
)

// RecordAPIRequest records one API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstreamRequest records one upstream provider call.
func RecordUpstreamRequest(provider, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(provider, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetCircuitBreakerState updates the breaker state gauge.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
