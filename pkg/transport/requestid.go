package transport

import (
	"cmp"
	"context"
	"crypto/rand"
	"encoding/hex"
	"slices"

	"github.com/rhuss/restapp/pkg/api"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextWithRequestID stores id in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns middleware that gives every dispatch an ID. The
// first of these wins: an ID already in ctx, the X-Request-ID request
// header, a freshly generated one. Responses carry the ID back unless
// the handler chose its own.
func RequestID() Middleware {
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.Request) *api.Response {
			id := cmp.Or(RequestIDFromContext(ctx), req.Header(RequestIDHeader))
			if id == "" {
				id = newRequestID()
			}

			resp := next.Dispatch(ContextWithRequestID(ctx, id), req)
			if resp.HeaderValue(RequestIDHeader) != "" {
				return resp
			}
			tagged := *resp
			tagged.Headers = append(slices.Clip(resp.Headers), api.Header{Key: RequestIDHeader, Value: id})
			return &tagged
		})
	}
}

func newRequestID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
