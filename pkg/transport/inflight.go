package transport

import (
	"context"
	"sync"

	"github.com/rhuss/restapp/pkg/api"
)

// InFlightRegistry holds the cancel functions of running dispatches so
// a shutdown that runs out of time can abort them. It is safe for
// concurrent use.
type InFlightRegistry struct {
	mu      sync.Mutex
	next    uint64
	cancels map[uint64]context.CancelFunc
}

// NewInFlightRegistry returns an empty registry.
func NewInFlightRegistry() *InFlightRegistry {
	return &InFlightRegistry{cancels: map[uint64]context.CancelFunc{}}
}

// Track records cancel until the returned release func is called.
// Release does not call cancel.
func (r *InFlightRegistry) Track(cancel context.CancelFunc) (release func()) {
	r.mu.Lock()
	r.next++
	key := r.next
	r.cancels[key] = cancel
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.cancels, key)
		r.mu.Unlock()
	}
}

// Len reports the number of tracked dispatches.
func (r *InFlightRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

// CancelAll cancels and forgets every tracked dispatch. It returns the
// number cancelled.
func (r *InFlightRegistry) CancelAll() int {
	r.mu.Lock()
	cancels := r.cancels
	r.cancels = map[uint64]context.CancelFunc{}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels)
}

// InFlight returns middleware that tracks each dispatch in reg while it
// runs. Handlers see CancelAll through ctx.Done.
func InFlight(reg *InFlightRegistry) Middleware {
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.Request) *api.Response {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			defer reg.Track(cancel)()
			return next.Dispatch(ctx, req)
		})
	}
}
