// Package transport defines the dispatch contract between protocol
// adapters and the router, plus the around-dispatch middleware every
// adapter shares.
//
// # Dispatcher
//
// A protocol adapter (net/http, AWS Lambda) turns a wire message into an
// [api.Request], calls [Dispatcher.Dispatch] once and writes the returned
// [api.Response] with [WriteResponse]. Dispatch never returns nil.
//
// # Middleware
//
// Around-dispatch [Middleware] wraps a Dispatcher with cross-cutting
// behavior: panic recovery, request ID assignment (X-Request-ID),
// in-flight tracking for shutdown and structured logging via log/slog.
// These are distinct from the router's pre-request hooks, which can only
// veto a request.
package transport
