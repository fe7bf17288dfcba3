package router

import (
	"context"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/binding"
	"github.com/rhuss/restapp/pkg/middleware"
)

// HandlerFunc handles a dispatched request. args[i] holds the value bound
// by the route's i-th binding. A returned error is reported to the client
// as a handler fault.
type HandlerFunc func(ctx context.Context, req *api.Request, args binding.Args) (*api.Response, error)

// Route is a resolved (method, path) pair bound to a handler.
type Route struct {
	Method   api.Method
	Path     string
	Bindings []binding.Binding
	// Protection runs only for this route, after the global chain.
	Protection middleware.Middleware
	// ProtectionName is the registry name Protection was resolved from.
	ProtectionName string
	Handler        HandlerFunc
}

// Protected reports whether the route has per-route protection.
func (r *Route) Protected() bool {
	return r.Protection != nil
}

// RouteInfo is a read-only description of a registered route.
type RouteInfo struct {
	Method     api.Method
	Path       string
	Bindings   []string
	Protection string
}
