package router

import (
	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/binding"
)

// Endpoint declares one handler of a controller. An Endpoint with an
// empty Method and Path carries no route metadata and is skipped.
type Endpoint struct {
	Method   api.Method
	Path     string
	Bindings []binding.Binding
	// Protect names a middleware registered with Router.Name.
	Protect string
	Handler HandlerFunc
}

// EndpointOption customizes an Endpoint built by GET, POST and friends.
type EndpointOption func(*Endpoint)

// Bind appends bindings in declaration order.
func Bind(bindings ...binding.Binding) EndpointOption {
	return func(e *Endpoint) { e.Bindings = append(e.Bindings, bindings...) }
}

// Queries appends one query binding per name.
func Queries(names ...string) EndpointOption {
	return func(e *Endpoint) {
		for _, name := range names {
			e.Bindings = append(e.Bindings, binding.Query(name))
		}
	}
}

// Protect attaches the named protection middleware.
func Protect(name string) EndpointOption {
	return func(e *Endpoint) { e.Protect = name }
}

// NewEndpoint builds an Endpoint for method and path.
func NewEndpoint(method api.Method, path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	e := Endpoint{Method: method, Path: path, Handler: h}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func GET(path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	return NewEndpoint(api.MethodGet, path, h, opts...)
}

func POST(path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	return NewEndpoint(api.MethodPost, path, h, opts...)
}

func PUT(path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	return NewEndpoint(api.MethodPut, path, h, opts...)
}

func DELETE(path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	return NewEndpoint(api.MethodDelete, path, h, opts...)
}

func HEAD(path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	return NewEndpoint(api.MethodHead, path, h, opts...)
}

func OPTIONS(path string, h HandlerFunc, opts ...EndpointOption) Endpoint {
	return NewEndpoint(api.MethodOptions, path, h, opts...)
}

// Controller is a registration-time bundle of endpoints sharing a path
// prefix. The prefix is concatenated to each endpoint path as-is.
type Controller interface {
	Prefix() string
	Endpoints() []Endpoint
}

// Group is a Controller built from literal values.
type Group struct {
	PathPrefix string
	Routes     []Endpoint
}

// Prefix returns the group's path prefix.
func (g Group) Prefix() string { return g.PathPrefix }

// Endpoints returns the group's endpoints.
func (g Group) Endpoints() []Endpoint { return g.Routes }
