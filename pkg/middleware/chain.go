package middleware

import (
	"context"

	"github.com/rhuss/restapp/pkg/api"
)

// Chain is an ordered list of hooks evaluated in registration order.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a chain holding the given hooks in order.
func NewChain(middlewares ...Middleware) *Chain {
	c := &Chain{}
	for _, m := range middlewares {
		c.Add(m)
	}
	return c
}

// Add appends a hook. Nil hooks, including Func(nil), are ignored.
func (c *Chain) Add(m Middleware) {
	if IsNil(m) {
		return
	}
	c.middlewares = append(c.middlewares, m)
}

// Len returns the number of hooks in the chain.
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// Clone returns an independent copy of the chain.
func (c *Chain) Clone() *Chain {
	out := &Chain{middlewares: make([]Middleware, len(c.middlewares))}
	copy(out.middlewares, c.middlewares)
	return out
}

// PreRequest runs the hooks in order and returns the first failing result.
// Hooks after a failure are not invoked. If every hook passes, the result
// is api.Pass().
func (c *Chain) PreRequest(ctx context.Context, req *api.Request) api.MiddlewareResult {
	for _, m := range c.middlewares {
		if res := m.PreRequest(ctx, req); res.Failed {
			return api.Fail(res.Status, res.Response)
		}
	}
	return api.Pass()
}
