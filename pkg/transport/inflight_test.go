package transport

import (
	"context"
	"sync"
	"testing"

	"github.com/rhuss/restapp/pkg/api"
)

func TestInFlightRegistryCancelAll(t *testing.T) {
	r := NewInFlightRegistry()

	var cancelled int
	r.Track(func() { cancelled++ })
	r.Track(func() { cancelled++ })

	if n := r.CancelAll(); n != 2 {
		t.Errorf("CancelAll() = %d, want 2", n)
	}
	if cancelled != 2 {
		t.Errorf("expected 2 cancel calls, got %d", cancelled)
	}
	if r.Len() != 0 {
		t.Errorf("registry should be empty after CancelAll, has %d", r.Len())
	}
}

func TestInFlightRegistryRelease(t *testing.T) {
	r := NewInFlightRegistry()

	cancelled := false
	release := r.Track(func() { cancelled = true })
	release()
	release()

	if n := r.CancelAll(); n != 0 {
		t.Errorf("CancelAll() after release = %d, want 0", n)
	}
	if cancelled {
		t.Error("cancel function should not be called after release")
	}
}

func TestInFlightMiddlewareTracksDispatch(t *testing.T) {
	reg := NewInFlightRegistry()
	var during int

	handler := DispatcherFunc(func(ctx context.Context, req *api.Request) *api.Response {
		during = reg.Len()
		return api.Plain("")
	})

	InFlight(reg)(handler).Dispatch(context.Background(), testRequest())

	if during != 1 {
		t.Errorf("expected 1 in-flight dispatch during handler, got %d", during)
	}
	if reg.Len() != 0 {
		t.Errorf("expected registry to be empty after dispatch, got %d", reg.Len())
	}
}

func TestInFlightCancelAllReachesHandler(t *testing.T) {
	reg := NewInFlightRegistry()
	started := make(chan struct{})
	done := make(chan error, 1)

	handler := DispatcherFunc(func(ctx context.Context, req *api.Request) *api.Response {
		close(started)
		<-ctx.Done()
		done <- ctx.Err()
		return api.Plain("")
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		InFlight(reg)(handler).Dispatch(context.Background(), testRequest())
	}()

	<-started
	reg.CancelAll()
	wg.Wait()

	if err := <-done; err != context.Canceled {
		t.Errorf("handler context error = %v, want context.Canceled", err)
	}
}

func TestInFlightRegistryConcurrentAccess(t *testing.T) {
	reg := NewInFlightRegistry()
	wrapped := InFlight(reg)(okDispatcher())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wrapped.Dispatch(context.Background(), testRequest())
		}()
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d entries", reg.Len())
	}
}
