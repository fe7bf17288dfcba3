// Package middleware provides pre-request hooks and the ordered chain
// that runs them before a request reaches its handler.
//
// A hook inspects the immutable request and either passes it on or vetoes
// it with a failing [api.MiddlewareResult]. The global [Chain] runs for
// every request; a [Registry] maps stable names to hooks so that single
// routes can reference a protection hook by name.
//
// Chains and registries are populated during startup and only read while
// serving. They perform no locking; callers must not add hooks once the
// transport has started accepting requests.
package middleware

import (
	"context"
	"reflect"

	"github.com/rhuss/restapp/pkg/api"
)

// Middleware is a pre-request hook. PreRequest must not retain or modify
// the request.
type Middleware interface {
	PreRequest(ctx context.Context, req *api.Request) api.MiddlewareResult
}

// Func is an adapter that allows using an ordinary function as a Middleware.
type Func func(ctx context.Context, req *api.Request) api.MiddlewareResult

// PreRequest calls f(ctx, req).
func (f Func) PreRequest(ctx context.Context, req *api.Request) api.MiddlewareResult {
	return f(ctx, req)
}

// IsNil reports whether m is nil or wraps a nil function or pointer, as
// with Func(nil). Such hooks would panic when run.
func IsNil(m Middleware) bool {
	if m == nil {
		return true
	}
	switch v := reflect.ValueOf(m); v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Reject returns a hook that fails every request with status and message.
func Reject(status int, message string) Middleware {
	return Func(func(context.Context, *api.Request) api.MiddlewareResult {
		return api.Fail(status, message)
	})
}

// RequireHeader returns a hook that fails with status when the named
// header is missing or empty.
func RequireHeader(name string, status int) Middleware {
	return Func(func(_ context.Context, req *api.Request) api.MiddlewareResult {
		if req.Header(name) == "" {
			return api.Fail(status, "missing header "+name)
		}
		return api.Pass()
	})
}
