package middleware

import (
	"fmt"
	"sort"

	"github.com/rhuss/restapp/pkg/api"
)

// Registry maps stable names to hook instances. Routes reference their
// protection hook by name; the name is resolved once at registration.
type Registry struct {
	named map[string]Middleware
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{named: make(map[string]Middleware)}
}

// Register binds name to m. Registering a name twice, an empty name or a
// nil hook is a configuration error.
func (r *Registry) Register(name string, m Middleware) error {
	if name == "" || IsNil(m) {
		return api.NewConfigError("", "", api.ErrInvalidMiddleware)
	}
	if _, exists := r.named[name]; exists {
		return api.NewConfigError("", "", fmt.Errorf("%w: %q", api.ErrDuplicateMiddleware, name))
	}
	r.named[name] = m
	return nil
}

// Lookup returns the hook registered under name.
func (r *Registry) Lookup(name string) (Middleware, bool) {
	m, ok := r.named[name]
	return m, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.named))
	for name := range r.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
