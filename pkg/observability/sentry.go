package observability

import (
	"cmp"
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/transport"
)

// SentryConfig configures the Sentry client.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	Debug       bool
}

// InitSentry initialises the global Sentry client. It is a no-op when no
// DSN is configured. The returned flush function must be called before
// the process exits.
func InitSentry(cfg SentryConfig) (flush func(), err error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}

	environment := cfg.Environment
	if environment == "" {
		environment = "local"
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Debug:            cfg.Debug,
		TracesSampleRate: 1.0,
		EnableTracing:    true,
		Environment:      environment,
		Release:          cfg.Release,
	})
	if err != nil {
		return nil, err
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// SentryReporter forwards handler faults to Sentry.
type SentryReporter struct {
	// Hub is the hub events are captured on. Nil means the current hub.
	Hub *sentry.Hub
}

// Report captures err tagged with the request line and its request ID.
func (r *SentryReporter) Report(ctx context.Context, req *api.Request, err error) {
	hub := r.Hub
	if hub == nil {
		hub = sentry.GetHubFromContext(ctx)
	}
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("http.method", req.Method.String())
		scope.SetTag("http.path", req.Path)
		if id := cmp.Or(transport.RequestIDFromContext(ctx), req.Header(transport.RequestIDHeader)); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.CaptureException(err)
	})
}
