// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package metrics provides Prometheus instrumentation for Gazetteer:
// sync operations, lint passes, upstream API calls and HTTP endpoints.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync Operation Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of area sync operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SyncAreasProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_areas_processed_total",
			Help: "Total number of area records ingested during sync",
		},
	)

	SyncBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_batch_size",
			Help:    "Number of area records per fetched batch",
			Buckets: []float64{1, 10, 25, 50, 100, 250},
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of sync errors",
		},
		[]string{"error_type"}, // "upstream", "conflict", "stuck_cursor"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last successful sync",
		},
	)

	// Lint Metrics
	LintIssuesByRule = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lint_issues",
			Help: "Current number of open lint issues per rule",
		},
		[]string{"rule"},
	)

	LintCachedAreas = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lint_cached_areas",
			Help: "Number of area reports currently held in the lint cache",
		},
	)

	LintFixesExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lint_fixes_executed_total",
			Help: "Total number of auto-fix executions",
		},
		[]string{"action", "result"}, // result: "success", "failure"
	)

	// Country Derivation Metrics
	CountryIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "country_index_geometries",
			Help: "Number of country geometries in the spatial index",
		},
	)

	CountryDerivationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "country_derivation_duration_seconds",
			Help:    "Duration of full country derivation passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Upstream API Metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream BTC Map API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"}, // rpc method or "list_areas"
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_request_errors_total",
			Help: "Total number of failed upstream API requests",
		},
		[]string{"method"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordSyncOperation records the standard metrics for a completed sync run.
func RecordSyncOperation(duration time.Duration, processed int, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncAreasProcessed.Add(float64(processed))
	if err == nil {
		SyncLastSuccess.SetToCurrentTime()
	}
}
