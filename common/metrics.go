package common

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Metrics for the price update loop
	UpdateIterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instrument_bench_update_iterations_total",
		Help: "Total number of price update iterations",
	})

	UpdateDocsSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instrument_bench_update_docs_success_total",
		Help: "Number of successfully updated instrument documents",
	})

	UpdateDocsFailure = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instrument_bench_update_docs_failure_total",
		Help: "Number of failed instrument document updates",
	})

	UpdateDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "instrument_bench_update_iteration_duration_seconds",
		Help:    "Histogram of price update iteration durations",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 15), // from 10ms to ~164s
	})

	// Metrics for the search loop
	SearchRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instrument_bench_search_requests_total",
		Help: "Total number of search requests",
	})

	SearchRequestsSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instrument_bench_search_requests_success_total",
		Help: "Number of successful search requests",
	})

	SearchRequestsFailure = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instrument_bench_search_requests_failure_total",
		Help: "Number of failed search requests",
	})

	SearchDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "instrument_bench_search_duration_seconds",
		Help:    "Histogram of search request durations",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // from 1ms to ~16s
	})

	SearchHitsHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "instrument_bench_search_hits",
		Help:    "Histogram of total hit counts per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	ArchetypeCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instrument_bench_search_archetype_total",
		Help: "Number of searches by archetype and query kind",
	}, []string{"archetype", "kind"})
)

// StartMetricsServer starts the HTTP server for Prometheus metrics
func StartMetricsServer(port int) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		addr := fmt.Sprintf(":%d", port)
		fmt.Printf("Metrics server started at %s/metrics\n", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			fmt.Printf("Error starting metrics server: %v\n", err)
		}
	}()
}
