package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/rhuss/restapp/pkg/observability"
	"github.com/rhuss/restapp/pkg/transport"
)

// HealthPath is answered by the server itself, outside the route table.
const HealthPath = "/healthz"

// Server runs a Dispatcher behind net/http. Besides the adapter it
// answers the health and metrics endpoints and drains requests on
// shutdown.
type Server struct {
	opts     serverOptions
	http     *http.Server
	adapter  *Adapter
	inflight *transport.InFlightRegistry
}

type serverOptions struct {
	addr            string
	maxBodySize     int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	h2c             bool
	metricsPath     string
	healthCheck     func(context.Context) error
	logger          *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

// WithAddr sets the listen address. The default is ":8080".
func WithAddr(addr string) ServerOption {
	return func(o *serverOptions) { o.addr = addr }
}

// WithMaxBodySize caps request bodies; larger ones are answered 413.
// The default is 10 MiB.
func WithMaxBodySize(n int64) ServerOption {
	return func(o *serverOptions) { o.maxBodySize = n }
}

// WithTimeouts sets the http.Server read and write timeouts.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(o *serverOptions) { o.readTimeout, o.writeTimeout = read, write }
}

// WithShutdownTimeout bounds how long shutdown waits for running
// requests before cancelling them.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(o *serverOptions) { o.shutdownTimeout = d }
}

// WithH2C accepts cleartext HTTP/2 next to HTTP/1.1.
func WithH2C(enabled bool) ServerOption {
	return func(o *serverOptions) { o.h2c = enabled }
}

// WithMetrics exposes Prometheus metrics on path and instruments every
// request that reaches the adapter.
func WithMetrics(path string) ServerOption {
	return func(o *serverOptions) { o.metricsPath = path }
}

// WithHealthCheck makes HealthPath answer 503 while check fails.
func WithHealthCheck(check func(context.Context) error) ServerOption {
	return func(o *serverOptions) { o.healthCheck = check }
}

// WithLogger sets the logger for lifecycle and request logs.
func WithLogger(l *slog.Logger) ServerOption {
	return func(o *serverOptions) { o.logger = l }
}

// NewServer returns a Server for d. Every dispatch is wrapped with
// request IDs, request logging, panic recovery and in-flight tracking.
func NewServer(d transport.Dispatcher, opts ...ServerOption) *Server {
	s := &Server{
		opts: serverOptions{
			addr:            ":8080",
			maxBodySize:     10 << 20,
			readTimeout:     30 * time.Second,
			writeTimeout:    60 * time.Second,
			shutdownTimeout: 30 * time.Second,
			logger:          slog.Default(),
		},
		inflight: transport.NewInFlightRegistry(),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}

	log := s.opts.logger
	s.adapter = NewAdapter(d, Config{MaxBodySize: s.opts.maxBodySize},
		transport.RequestID(),
		transport.Logging(log),
		transport.Recovery(log),
		transport.InFlight(s.inflight),
	)
	s.http = &http.Server{
		Addr:         s.opts.addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.readTimeout,
		WriteTimeout: s.opts.writeTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}
	return s
}

// Handler returns the full HTTP handler. Request paths reach the
// adapter exactly as received.
func (s *Server) Handler() http.Handler {
	var app http.Handler = s.adapter
	var metrics http.Handler
	if s.opts.metricsPath != "" {
		app = observability.MetricsMiddleware(app)
		metrics = promhttp.Handler()
	}

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			switch {
			case r.URL.Path == HealthPath:
				s.serveHealth(w, r)
				return
			case metrics != nil && r.URL.Path == s.opts.metricsPath:
				metrics.ServeHTTP(w, r)
				return
			}
		}
		app.ServeHTTP(w, r)
	})
	if s.opts.h2c {
		h = h2c.NewHandler(h, &http2.Server{})
	}
	return h
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.healthCheck != nil {
		if err := s.opts.healthCheck(r.Context()); err != nil {
			s.opts.logger.Warn("health check failed", "error", err)
			transport.WriteText(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	transport.WriteText(w, http.StatusOK, "ok")
}

// ListenAndServeContext listens on the configured address and serves
// until ctx is done.
func (s *Server) ListenAndServeContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.addr)
	if err != nil {
		return err
	}
	return s.ServeOn(ctx, ln)
}

// ServeOn serves on ln until ctx is done or serving fails, then shuts
// down gracefully.
func (s *Server) ServeOn(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.opts.logger.Info("server starting", "addr", ln.Addr().String(), "h2c", s.opts.h2c)
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.shutdownTimeout)
		defer cancel()
		s.opts.logger.Info("shutting down", "timeout", s.opts.shutdownTimeout)
		return s.Shutdown(ctx)
	})
	if err := g.Wait(); err != nil {
		s.opts.logger.Error("server stopped", "error", err)
		return err
	}
	s.opts.logger.Info("server stopped")
	return nil
}

// Shutdown stops accepting connections and waits for running requests.
// When ctx expires first, their dispatch contexts are cancelled.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		if n := s.inflight.CancelAll(); n > 0 {
			s.opts.logger.Warn("cancelled in-flight requests", "count", n)
		}
	}
	return err
}
