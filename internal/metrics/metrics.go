// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"civicfund/internal/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civicfund",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "civicfund",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	contributionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civicfund",
			Subsystem: "ledger",
			Name:      "contributions_recorded_total",
			Help:      "Contributions appended to the ledger, split by kind.",
		},
		[]string{"kind"},
	)

	accessDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civicfund",
			Subsystem: "access",
			Name:      "denied_total",
			Help:      "Operations refused by the access gate.",
		},
		[]string{"operation", "reason"},
	)

	enrichmentFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "civicfund",
			Subsystem: "enrich",
			Name:      "fallbacks_total",
			Help:      "Contributions enriched with the N/A placeholder.",
		},
	)
)

// ObserveHTTP records one finished request.
func ObserveHTTP(route, method string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// ContributionRecorded counts an appended contribution.
func ContributionRecorded(generalDrive bool) {
	kind := "issue"
	if generalDrive {
		kind = "general_drive"
	}
	contributionsRecorded.WithLabelValues(kind).Inc()
}

// AccessDenied counts a gate refusal, labelled by the sentinel it carried.
func AccessDenied(operation string, err error) {
	reason := "other"
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		reason = "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		reason = "forbidden"
	}
	accessDenied.WithLabelValues(operation, reason).Inc()
}

// EnrichmentFallback counts contributions that could not be joined to an issue.
func EnrichmentFallback(n int) {
	if n > 0 {
		enrichmentFallbacks.Add(float64(n))
	}
}
