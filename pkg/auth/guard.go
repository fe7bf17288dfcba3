package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/middleware"
	"github.com/rhuss/restapp/pkg/observability"
)

// DefaultBypassPaths lists request paths that skip authentication when the
// guard runs as a global hook.
var DefaultBypassPaths = []string{"/healthz", "/readyz", "/metrics"}

// GuardOption configures a guard created by Guard.
type GuardOption func(*guard)

// WithBypass lets requests for the given exact paths through without
// authentication.
func WithBypass(paths ...string) GuardOption {
	return func(g *guard) {
		for _, p := range paths {
			g.bypass[p] = true
		}
	}
}

// WithScope requires the authenticated identity to carry scope. Callers
// without it are rejected with 403.
func WithScope(scope string) GuardOption {
	return func(g *guard) {
		g.scope = scope
	}
}

// WithGuardLogger sets the logger used for rejections.
func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *guard) {
		g.logger = logger
	}
}

type guard struct {
	chain   *AuthChain
	limiter RateLimiter
	bypass  map[string]bool
	scope   string
	logger  *slog.Logger
}

// Guard creates a pre-request hook from an AuthChain and an optional
// RateLimiter. Requests are rejected with 401 when the chain votes No,
// with 403 when a required scope is missing and with 429 when the limiter
// refuses them.
func Guard(chain *AuthChain, limiter RateLimiter, opts ...GuardOption) middleware.Middleware {
	g := &guard{
		chain:   chain,
		limiter: limiter,
		bypass:  make(map[string]bool),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *guard) PreRequest(ctx context.Context, req *api.Request) api.MiddlewareResult {
	if g.bypass[req.Path] {
		return api.Pass()
	}

	result := g.chain.Authenticate(ctx, req)

	if result.Decision == No {
		g.logger.Warn("authentication failed",
			"method", req.Method,
			"path", req.Path,
			"error", result.Err,
		)
		return api.Fail(http.StatusUnauthorized, ErrUnauthenticated.Error())
	}

	if result.Decision != Yes || result.Identity == nil {
		return api.Fail(http.StatusUnauthorized, ErrUnauthenticated.Error())
	}

	id := result.Identity
	if id.Subject == "" {
		g.logger.Error("authenticator returned identity with empty subject")
		return api.Fail(http.StatusInternalServerError, "internal authentication error")
	}

	debug.Log(debug.Auth, "authentication succeeded",
		"subject", id.Subject,
		"path", req.Path,
	)

	if g.scope != "" && !id.HasScope(g.scope) {
		g.logger.Warn("missing scope",
			"subject", id.Subject,
			"scope", g.scope,
			"path", req.Path,
		)
		return api.Fail(http.StatusForbidden, ErrForbidden.Error())
	}

	if g.limiter != nil {
		if err := g.limiter.Allow(ctx, id); err != nil {
			g.logger.Warn("rate limit exceeded",
				"subject", id.Subject,
				"tier", id.ServiceTier,
			)
			observability.RateLimitRejectedTotal.WithLabelValues(tierOf(id)).Inc()
			return api.Fail(http.StatusTooManyRequests, ErrTooManyRequests.Error())
		}
	}

	return api.Pass()
}
