// Package metrics provides Prometheus metrics for the HTTP layer and product operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// ProductOperationsTotal counts product service calls by operation and result.
	ProductOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "products",
			Name:      "operations_total",
			Help:      "Total number of product operations by operation and result",
		},
		[]string{"operation", "result"},
	)
)

// Results recorded by ObserveProductOperation.
const (
	ResultSuccess      = "success"
	ResultInvalid      = "invalid"
	ResultNotFound     = "not_found"
	ResultUnauthorized = "unauthorized"
	ResultForbidden    = "forbidden"
	ResultError        = "error"
)

// ObserveProductOperation records the outcome of a product operation.
func ObserveProductOperation(operation, result string) {
	ProductOperationsTotal.WithLabelValues(operation, result).Inc()
}
