// Package jwt authenticates bearer tokens that are RSA-signed JWTs. The
// verification keys are fetched from a JWKS endpoint and cached.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/auth"
	"github.com/rhuss/restapp/pkg/debug"
)

var (
	errEmptyToken = errors.New("empty bearer token")
	errMissingKID = errors.New("token header has no kid")
)

// Config configures the authenticator.
type Config struct {
	// Issuer is the required iss claim. Empty disables the check.
	Issuer string

	// Audience is the required aud claim. Empty disables the check.
	Audience string

	// JWKSURL serves the key set used to verify signatures.
	JWKSURL string

	// UserClaim names the claim used as subject. Default "sub".
	UserClaim string

	// TierClaim names the claim used as service tier. Default "tier".
	TierClaim string

	// ScopesClaim names the claim holding scopes, either a
	// space-separated string or an array of strings. Default "scope".
	ScopesClaim string

	// CacheTTL is how long a fetched key set is trusted. Default 1h.
	CacheTTL time.Duration

	// MinRefreshInterval throttles refetches caused by unknown key IDs.
	// Default 1m.
	MinRefreshInterval time.Duration

	// HTTPClient fetches the key set. Default http.DefaultClient.
	HTTPClient *http.Client
}

func (c *Config) applyDefaults() {
	if c.UserClaim == "" {
		c.UserClaim = "sub"
	}
	if c.TierClaim == "" {
		c.TierClaim = "tier"
	}
	if c.ScopesClaim == "" {
		c.ScopesClaim = "scope"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
	if c.MinRefreshInterval == 0 {
		c.MinRefreshInterval = time.Minute
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

// Authenticator verifies JWT bearer tokens.
type Authenticator struct {
	cfg    Config
	parser *jwtlib.Parser
	keys   *keySet
}

// New returns an authenticator for cfg. No request is made until the
// first token is verified.
func New(cfg Config) *Authenticator {
	cfg.applyDefaults()

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwtlib.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(cfg.Audience))
	}

	return &Authenticator{
		cfg:    cfg,
		parser: jwtlib.NewParser(opts...),
		keys:   newKeySet(cfg.JWKSURL, cfg.HTTPClient, cfg.CacheTTL, cfg.MinRefreshInterval),
	}
}

// Authenticate abstains without a bearer token, votes No for a token
// that fails verification and Yes with the identity read from the
// token's claims otherwise.
func (a *Authenticator) Authenticate(ctx context.Context, req *api.Request) auth.AuthResult {
	raw, ok := auth.BearerToken(req)
	if !ok {
		return auth.Abstained()
	}
	if raw == "" {
		return auth.Denied(errEmptyToken)
	}

	token, err := a.parser.Parse(raw, a.keyFunc(ctx))
	if err != nil {
		debug.Log(debug.Auth, "jwt rejected", "path", req.Path, "error", err)
		return auth.Denied(fmt.Errorf("invalid token: %w", err))
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return auth.Denied(errors.New("invalid token claims"))
	}

	id, err := a.identity(claims)
	if err != nil {
		return auth.Denied(err)
	}
	return auth.Granted(id)
}

func (a *Authenticator) keyFunc(ctx context.Context) jwtlib.Keyfunc {
	return func(t *jwtlib.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errMissingKID
		}
		return a.keys.get(ctx, kid)
	}
}

func (a *Authenticator) identity(claims jwtlib.MapClaims) (*auth.Identity, error) {
	subject, _ := claims[a.cfg.UserClaim].(string)
	if subject == "" {
		return nil, fmt.Errorf("token has no %q claim", a.cfg.UserClaim)
	}

	tier, _ := claims[a.cfg.TierClaim].(string)
	if tier == "" {
		tier = auth.DefaultTier
	}

	return &auth.Identity{
		Subject:     subject,
		ServiceTier: tier,
		Scopes:      scopes(claims[a.cfg.ScopesClaim]),
	}, nil
}

// scopes reads a space-separated string or an array of strings. Other
// shapes and non-string array items are ignored.
func scopes(v any) []string {
	var out []string
	switch v := v.(type) {
	case string:
		out = strings.Fields(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
