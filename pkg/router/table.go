package router

import "github.com/rhuss/restapp/pkg/api"

type routeKey struct {
	method api.Method
	path   string
}

// table is an append-only route table. Lookups are exact on (method, path).
type table struct {
	index  map[routeKey]*Route
	routes []*Route
}

func newTable() *table {
	return &table{index: make(map[routeKey]*Route)}
}

func (t *table) add(r *Route) error {
	key := routeKey{method: r.Method, path: r.Path}
	if _, exists := t.index[key]; exists {
		return api.NewConfigError(r.Method, r.Path, api.ErrDuplicateRoute)
	}
	t.index[key] = r
	t.routes = append(t.routes, r)
	return nil
}

func (t *table) lookup(method api.Method, path string) (*Route, bool) {
	r, ok := t.index[routeKey{method: method, path: path}]
	return r, ok
}

func (t *table) len() int {
	return len(t.routes)
}
