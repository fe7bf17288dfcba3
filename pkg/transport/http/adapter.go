// Package http adapts the transport dispatch contract to net/http.
package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/transport"
)

// Transport-level response bodies. These failures never reach the dispatcher.
const (
	BodyTooLarge     = "Request body too large"
	MethodNotAllowed = "Method not allowed"
	BodyUnreadable   = "Invalid body"
)

// rawBodyLimit caps request bodies echoed by transport tracing.
const rawBodyLimit = 4096

// Adapter serves a transport.Dispatcher over HTTP. Each request is
// transformed into an api.Request, dispatched once and the response is
// written back with transport.WriteResponse.
type Adapter struct {
	dispatcher transport.Dispatcher
	config     Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 10 << 20, // 10 MB
	}
}

// NewAdapter creates an HTTP adapter. Middleware is applied to the
// dispatcher in the given order.
func NewAdapter(d transport.Dispatcher, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		d = transport.Chain(middlewares...)(d)
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	return &Adapter{dispatcher: d, config: cfg}
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, status, err := a.transformRequest(w, r)
	if err != nil {
		debug.Log(debug.Transport, "request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
		transport.WriteText(w, status, err.Error())
		return
	}

	resp := a.dispatcher.Dispatch(r.Context(), req)
	transport.WriteResponse(w, resp)
}

// transformRequest converts r into an api.Request. On failure it returns
// the status and a client-facing error.
func (a *Adapter) transformRequest(w http.ResponseWriter, r *http.Request) (*api.Request, int, error) {
	method, ok := api.ParseMethod(r.Method)
	if !ok {
		return nil, http.StatusMethodNotAllowed, errors.New(MethodNotAllowed)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.config.MaxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, http.StatusRequestEntityTooLarge, errors.New(BodyTooLarge)
		}
		return nil, http.StatusBadRequest, errors.New(BodyUnreadable)
	}
	if len(body) > 0 {
		debug.Raw(debug.Transport, debug.Truncate(string(body), rawBodyLimit))
	}

	headers := make(map[string]string, len(r.Header))
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	queries := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queries[key] = values[0]
		}
	}

	return api.NewRequest(method, r.URL.Path, string(body), headers, queries), 0, nil
}
