package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/auth"
	"github.com/rhuss/restapp/pkg/auth/apikey"
	"github.com/rhuss/restapp/pkg/auth/jwt"
	"github.com/rhuss/restapp/pkg/auth/noop"
	"github.com/rhuss/restapp/pkg/auth/redislimit"
	"github.com/rhuss/restapp/pkg/binding"
	"github.com/rhuss/restapp/pkg/config"
	"github.com/rhuss/restapp/pkg/observability"
	"github.com/rhuss/restapp/pkg/router"
	"github.com/rhuss/restapp/pkg/storage/memory"
	"github.com/rhuss/restapp/pkg/storage/postgres"
	"github.com/rhuss/restapp/pkg/zoo"
)

// AdminScope is the scope required by the admin protection.
const AdminScope = "admin"

// HelloBody is served on GET /.
const HelloBody = "Hello World!"

// application is the wired application: the frozen route table and
// the resources it depends on.
type application struct {
	dispatcher *router.Dispatcher
	store      zoo.Store
	closers    []func() error
}

// newApplication builds the store, authentication, router and routes
// described by cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	a := &application{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.store, err = newStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.store.Close)

	chain, err := newAuthChain(cfg.Auth)
	if err != nil {
		return nil, err
	}

	limiter, err := a.newRateLimiter(ctx, cfg.Auth.RateLimit)
	if err != nil {
		return nil, err
	}

	opts := []router.Option{router.WithLogger(logger)}
	if cfg.Observability.Sentry.DSN != "" {
		opts = append(opts, router.WithFaultReporter(&observability.SentryReporter{}))
	}
	r := router.New(opts...)

	if cfg.Auth.Global {
		guard := auth.Guard(chain, limiter,
			auth.WithBypass(auth.DefaultBypassPaths...),
			auth.WithGuardLogger(logger),
		)
		if err := r.Use(guard); err != nil {
			return nil, err
		}
	}

	admin := auth.Guard(chain, limiter, auth.WithScope(AdminScope), auth.WithGuardLogger(logger))
	if err := r.Name(zoo.AdminProtection, admin); err != nil {
		return nil, err
	}

	if err := r.Handle(api.MethodGet, "/", hello); err != nil {
		return nil, err
	}
	if err := r.Register(zoo.NewController(a.store, zoo.WithLogger(logger))); err != nil {
		return nil, err
	}

	a.dispatcher = r.Build()
	logger.Info("routes registered", "count", len(a.dispatcher.Routes()), "auth", cfg.Auth.Type, "storage", cfg.Storage.Type)
	return a, nil
}

// Close releases the store and rate limiter connections.
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func hello(context.Context, *api.Request, binding.Args) (*api.Response, error) {
	return api.Plain(HelloBody), nil
}

func newStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (zoo.Store, error) {
	switch cfg.Type {
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
			Logger:         logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating postgres store: %w", err)
		}
		return store, nil
	case "memory":
		return memory.New(cfg.MaxSize), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// newAuthChain builds the authenticator chain. With type "none" every
// caller is anonymous and carries no scopes, so admin-protected routes
// answer 403.
func newAuthChain(cfg config.AuthConfig) (*auth.AuthChain, error) {
	switch cfg.Type {
	case "none":
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{&noop.Authenticator{}},
			DefaultDecision: auth.Yes,
		}, nil
	case "apikey":
		entries := make([]apikey.Entry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			entries = append(entries, apikey.Entry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
					Scopes:      k.Scopes,
				},
			})
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}, nil
	case "jwt":
		return &auth.AuthChain{
			Authenticators: []auth.Authenticator{jwt.New(jwt.Config{
				Issuer:      cfg.JWT.Issuer,
				Audience:    cfg.JWT.Audience,
				JWKSURL:     cfg.JWT.JWKSURL,
				UserClaim:   cfg.JWT.UserClaim,
				ScopesClaim: cfg.JWT.ScopesClaim,
				TierClaim:   cfg.JWT.TierClaim,
			})},
			DefaultDecision: auth.No,
		}, nil
	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}

// newRateLimiter returns nil when no limit is configured.
func (a *application) newRateLimiter(ctx context.Context, cfg config.RateLimitConfig) (auth.RateLimiter, error) {
	if cfg.RequestsPerMinute <= 0 && len(cfg.Tiers) == 0 {
		return nil, nil
	}

	tiers := make(map[string]auth.TierConfig, len(cfg.Tiers))
	for name, rpm := range cfg.Tiers {
		tiers[name] = auth.TierConfig{RequestsPerMinute: rpm}
	}

	switch cfg.Backend {
	case "redis":
		l, err := redislimit.New(ctx, redislimit.Config{
			Addr:              cfg.Redis.Addr,
			Password:          cfg.Redis.Password,
			DB:                cfg.Redis.DB,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Tiers:             tiers,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, l.Close)
		return l, nil
	case "memory":
		return auth.NewInProcessLimiter(tiers, cfg.RequestsPerMinute), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}
}
