package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/binding"
	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/middleware"
)

// FaultReporter receives handler faults after they have been converted
// to a 500 response.
type FaultReporter interface {
	Report(ctx context.Context, req *api.Request, err error)
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for handler faults. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithFaultReporter forwards handler faults to fr.
func WithFaultReporter(fr FaultReporter) Option {
	return func(r *Router) {
		r.reporter = fr
	}
}

// Router collects routes and middleware during startup. It is not safe
// for concurrent use and rejects every registration once Build has been
// called.
type Router struct {
	global   *middleware.Chain
	named    *middleware.Registry
	table    *table
	logger   *slog.Logger
	reporter FaultReporter
	frozen   bool
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		global: middleware.NewChain(),
		named:  middleware.NewRegistry(),
		table:  newTable(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use appends m to the global middleware chain.
func (r *Router) Use(m middleware.Middleware) error {
	if r.frozen {
		return api.NewConfigError("", "", api.ErrRouterFrozen)
	}
	if middleware.IsNil(m) {
		return api.NewConfigError("", "", api.ErrInvalidMiddleware)
	}
	r.global.Add(m)
	debug.Log(debug.Middleware, "global middleware added", "position", r.global.Len())
	return nil
}

// Name registers m under name so endpoints can reference it as their
// protection middleware. Names must be registered before the endpoints
// that use them.
func (r *Router) Name(name string, m middleware.Middleware) error {
	if r.frozen {
		return api.NewConfigError("", "", api.ErrRouterFrozen)
	}
	if err := r.named.Register(name, m); err != nil {
		return err
	}
	debug.Log(debug.Middleware, "named middleware registered", "name", name)
	return nil
}

// Handle registers an ad-hoc route whose handler receives only the request.
func (r *Router) Handle(method api.Method, path string, h HandlerFunc) error {
	route, err := r.resolve("", Endpoint{Method: method, Path: path, Handler: h})
	if err != nil {
		return err
	}
	return r.add(route)
}

// HandleEndpoint registers a single endpoint without a prefix.
func (r *Router) HandleEndpoint(e Endpoint) error {
	return r.Register(Group{Routes: []Endpoint{e}})
}

// Register resolves every endpoint of c against its prefix and adds the
// resulting routes. Nothing is added unless all endpoints are valid.
func (r *Router) Register(c Controller) error {
	if r.frozen {
		return api.NewConfigError("", "", api.ErrRouterFrozen)
	}

	prefix := c.Prefix()
	pending := newTable()
	for _, e := range c.Endpoints() {
		if e.Method == "" && e.Path == "" {
			continue
		}
		route, err := r.resolve(prefix, e)
		if err != nil {
			return err
		}
		if _, exists := r.table.lookup(route.Method, route.Path); exists {
			return api.NewConfigError(route.Method, route.Path, api.ErrDuplicateRoute)
		}
		if err := pending.add(route); err != nil {
			return err
		}
	}

	for _, route := range pending.routes {
		if err := r.add(route); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the router and returns the dispatcher serving its routes.
// Further registration fails with ErrRouterFrozen.
func (r *Router) Build() *Dispatcher {
	r.frozen = true
	debug.Log(debug.Routing, "route table frozen", "routes", r.table.len(), "global_middleware", r.global.Len())
	return &Dispatcher{
		global:   r.global,
		table:    r.table,
		logger:   r.logger,
		reporter: r.reporter,
	}
}

// resolve validates e and turns it into a Route under prefix.
func (r *Router) resolve(prefix string, e Endpoint) (*Route, error) {
	path := prefix + e.Path
	if r.frozen {
		return nil, api.NewConfigError(e.Method, path, api.ErrRouterFrozen)
	}
	if !e.Method.Valid() {
		return nil, api.NewConfigError(e.Method, path, fmt.Errorf("%w: %q", api.ErrInvalidMethod, e.Method))
	}
	if path == "" {
		return nil, api.NewConfigError(e.Method, path, fmt.Errorf("%w: empty path", api.ErrInvalidBinding))
	}
	if e.Handler == nil {
		return nil, api.NewConfigError(e.Method, path, api.ErrNilHandler)
	}

	bindings, err := binding.Prepare(e.Bindings)
	if err != nil {
		return nil, api.NewConfigError(e.Method, path, err)
	}

	route := &Route{
		Method:   e.Method,
		Path:     path,
		Bindings: bindings,
		Handler:  e.Handler,
	}
	if e.Protect != "" {
		m, ok := r.named.Lookup(e.Protect)
		if !ok {
			return nil, api.NewConfigError(e.Method, path, fmt.Errorf("%w: %q", api.ErrUnknownProtection, e.Protect))
		}
		route.Protection = m
		route.ProtectionName = e.Protect
	}
	return route, nil
}

func (r *Router) add(route *Route) error {
	if err := r.table.add(route); err != nil {
		return err
	}
	debug.Log(debug.Routing, "route registered",
		"method", route.Method,
		"path", route.Path,
		"bindings", len(route.Bindings),
		"protected", route.Protected(),
	)
	return nil
}
