package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rhuss/restapp/pkg/api"
)

// InternalErrorBody is the body returned when dispatch panics outside a
// handler, for example inside a pre-request hook.
const InternalErrorBody = "Internal Server Error"

// Recovery returns middleware that catches panics escaping the dispatcher
// and converts them to a 500 text response. The server continues to
// accept new requests after a panic is recovered.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.Request) (resp *api.Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "dispatch panic recovered",
						"request_id", RequestIDFromContext(ctx),
						"method", req.Method,
						"path", req.Path,
						"panic", r,
					)
					resp = api.Plain(InternalErrorBody, api.WithStatus(http.StatusInternalServerError))
				}
			}()
			return next.Dispatch(ctx, req)
		})
	}
}
