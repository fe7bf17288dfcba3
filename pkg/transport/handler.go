package transport

import (
	"context"
	"slices"

	"github.com/rhuss/restapp/pkg/api"
)

// Dispatcher turns a request into a response. Implementations must be
// safe for concurrent use and must never return nil.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *api.Request) *api.Response
}

// DispatcherFunc is an adapter that allows using an ordinary function
// as a Dispatcher.
type DispatcherFunc func(ctx context.Context, req *api.Request) *api.Response

// Dispatch calls f(ctx, req).
func (f DispatcherFunc) Dispatch(ctx context.Context, req *api.Request) *api.Response {
	return f(ctx, req)
}

// Middleware decorates a Dispatcher.
type Middleware func(Dispatcher) Dispatcher

// Chain composes middlewares so that the first one sees the request
// first: Chain(a, b)(d) is a(b(d)).
func Chain(middlewares ...Middleware) Middleware {
	return func(d Dispatcher) Dispatcher {
		for _, m := range slices.Backward(middlewares) {
			d = m(d)
		}
		return d
	}
}
