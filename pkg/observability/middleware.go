package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware instruments next with the HTTP request metrics:
// the in-flight gauge, the per-method duration histogram and the
// request counter labelled by method and status code. Method labels
// are lower-cased by promhttp ("get", "post").
func MetricsMiddleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(InFlightRequests,
		promhttp.InstrumentHandlerDuration(RequestDuration,
			promhttp.InstrumentHandlerCounter(RequestsTotal, next),
		),
	)
}
