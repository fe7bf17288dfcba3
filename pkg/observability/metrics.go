// Package observability provides Prometheus metrics, HTTP middleware and
// fault reporting for the restapp server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Dispatch outcomes used as the "outcome" label of DispatchTotal.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeRejected     = "rejected"
	OutcomeMissingQuery = "missing_query"
	OutcomeInvalidBody  = "invalid_body"
	OutcomeFault        = "fault"
)

// Middleware rejection scopes used as the "scope" label.
const (
	ScopeGlobal = "global"
	ScopeRoute  = "route"
)

// HTTPBuckets are histogram buckets for request handling latency, from
// 1ms to 10s.
var HTTPBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// RequestsTotal counts HTTP requests by method and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restapp_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "code"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restapp_request_duration_seconds",
			Help:    "Request duration",
			Buckets: HTTPBuckets,
		},
		[]string{"method"},
	)

	// InFlightRequests tracks requests currently being served.
	InFlightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "restapp_requests_in_flight",
			Help: "Requests in flight",
		},
	)

	// DispatchTotal counts dispatcher results by outcome.
	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restapp_dispatch_total",
			Help: "Dispatch outcomes",
		},
		[]string{"outcome"},
	)

	// MiddlewareRejectionsTotal counts requests vetoed by a middleware,
	// split by global chain and per-route protection.
	MiddlewareRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restapp_middleware_rejections_total",
			Help: "Middleware rejections",
		},
		[]string{"scope"},
	)

	// HandlerFaultsTotal counts handler errors and panics.
	HandlerFaultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "restapp_handler_faults_total",
			Help: "Handler faults",
		},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restapp_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InFlightRequests,
		DispatchTotal,
		MiddlewareRejectionsTotal,
		HandlerFaultsTotal,
		RateLimitRejectedTotal,
	)
}

// RecordRejection increments the dispatch and middleware rejection
// counters for scope.
func RecordRejection(scope string) {
	DispatchTotal.WithLabelValues(OutcomeRejected).Inc()
	MiddlewareRejectionsTotal.WithLabelValues(scope).Inc()
}

// RecordFault increments the dispatch and handler fault counters.
func RecordFault() {
	DispatchTotal.WithLabelValues(OutcomeFault).Inc()
	HandlerFaultsTotal.Inc()
}
