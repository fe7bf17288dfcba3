package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/restapp/pkg/api"
)

// Logging returns middleware that emits one structured log entry per
// dispatched request with request ID, method, path, status and duration.
// Server errors (5xx) are logged at ERROR, everything else at INFO.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.Request) *api.Response {
			start := time.Now()

			resp := next.Dispatch(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("method", req.Method.String()),
				slog.String("path", req.Path),
				slog.Int("status", resp.Status),
				slog.Duration("duration", time.Since(start)),
			}

			level := slog.LevelInfo
			if resp.Status >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(ctx, level, "request", attrs...)

			return resp
		})
	}
}
