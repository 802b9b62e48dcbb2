package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names are part of the operational contract; dashboards and
// alerts key on them.
var (
	metricTotalQueries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "surrealmcp",
		Name:      "total_queries",
		Help:      "Number of queries executed successfully.",
	})
	metricTotalQueryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "surrealmcp",
		Name:      "total_query_errors",
		Help:      "Number of queries that failed at the database.",
	})
	metricTotalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "surrealmcp",
		Name:      "total_errors",
		Help:      "Number of errors of any kind.",
	})
	metricTotalRateLimitErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "surrealmcp",
		Name:      "total_rate_limit_errors",
		Help:      "Number of requests rejected by the rate limiter.",
	})
	metricQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "surrealmcp",
		Name:      "query_duration_ms",
		Help:      "Query execution wall-clock duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
)
