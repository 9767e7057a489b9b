// Package metrics registers the service's Prometheus collectors with the
// default registry: HTTP traffic, rate limiting, prescription analyses,
// the alternatives cache and reference data reloads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of rate limiter buckets (clients seen in the last few minutes)",
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_analyses_total",
			Help: "Completed prescription analyses by outcome (risk tier, invalid_input, timeout or canceled)",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prescription_analysis_duration_seconds",
			Help:    "Time spent analysing one prescription",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	UnknownMedicinesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unknown_medicines_total",
			Help: "Prescribed medicines absent from the inventory store",
		},
	)

	AlternativesCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alternatives_cache_requests_total",
			Help: "Scored alternatives cache lookups by result",
		},
		[]string{"result"},
	)

	DataReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_data_reloads_total",
			Help: "Reference data reload attempts by result",
		},
		[]string{"result"},
	)

	ReferenceRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reference_records",
			Help: "Records held per reference store",
		},
		[]string{"store"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		AnalysesTotal,
		AnalysisDuration,
		UnknownMedicinesTotal,
		AlternativesCacheTotal,
		DataReloadsTotal,
		ReferenceRecords,
	)
}

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(outcome string, elapsed time.Duration) {
	AnalysesTotal.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(elapsed.Seconds())
}

// ObserveCache records a hit or a miss on the alternatives cache.
func ObserveCache(hit bool) {
	if hit {
		AlternativesCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	AlternativesCacheTotal.WithLabelValues("miss").Inc()
}

// ObserveReload records a reload attempt and, on success, the store sizes.
func ObserveReload(err error, records map[string]int) {
	if err != nil {
		DataReloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	DataReloadsTotal.WithLabelValues("success").Inc()
	for store, n := range records {
		ReferenceRecords.WithLabelValues(store).Set(float64(n))
	}
}
