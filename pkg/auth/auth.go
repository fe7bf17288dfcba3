package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/debug"
)

// AuthDecision is an authenticator's vote on a request.
type AuthDecision int

const (
	// Yes accepts the credentials. The chain stops and the identity is used.
	Yes AuthDecision = iota

	// No rejects credentials that were presented but are invalid. The
	// chain stops.
	No

	// Abstain passes the request on to the next authenticator.
	Abstain
)

func (d AuthDecision) String() string {
	switch d {
	case Yes:
		return "yes"
	case No:
		return "no"
	case Abstain:
		return "abstain"
	default:
		return "unknown"
	}
}

// Sentinel errors. Their messages are sent to clients by [Guard].
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrTooManyRequests = errors.New("rate limit exceeded")
)

// AuthResult is the outcome of one authentication attempt.
type AuthResult struct {
	Decision AuthDecision
	Identity *Identity // set when Decision is Yes
	Err      error     // set when Decision is No
}

// Granted returns a Yes vote for id.
func Granted(id *Identity) AuthResult {
	return AuthResult{Decision: Yes, Identity: id}
}

// Denied returns a No vote. A nil err is reported as ErrUnauthenticated.
func Denied(err error) AuthResult {
	if err == nil {
		err = ErrUnauthenticated
	}
	return AuthResult{Decision: No, Err: err}
}

// Abstained returns an Abstain vote.
func Abstained() AuthResult {
	return AuthResult{Decision: Abstain}
}

// Identity names for callers without credentials.
const (
	AnonymousSubject = "anonymous"
	DefaultTier      = "default"
)

// Identity is an authenticated caller.
type Identity struct {
	// Subject identifies the caller and must not be empty.
	Subject string

	// ServiceTier selects the rate limit. Empty means DefaultTier.
	ServiceTier string

	// Scopes lists the permissions granted to the caller.
	Scopes []string
}

// Anonymous returns a fresh identity for callers admitted without
// credentials. It carries no scopes.
func Anonymous() *Identity {
	return &Identity{Subject: AnonymousSubject, ServiceTier: DefaultTier}
}

// HasScope reports whether the identity was granted scope.
func (id *Identity) HasScope(scope string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Scopes, scope)
}

// Clone returns a deep copy of id.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	c := *id
	c.Scopes = slices.Clone(id.Scopes)
	return &c
}

// Authenticator inspects the credentials of a request and votes.
type Authenticator interface {
	Authenticate(ctx context.Context, req *api.Request) AuthResult
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, req *api.Request) AuthResult

// Authenticate calls f(ctx, req).
func (f AuthenticatorFunc) Authenticate(ctx context.Context, req *api.Request) AuthResult {
	return f(ctx, req)
}

// AuthChain asks its authenticators in order until one votes Yes or No.
type AuthChain struct {
	Authenticators []Authenticator

	// DefaultDecision applies when every authenticator abstains. Yes
	// admits the caller as [Anonymous]; anything else rejects.
	DefaultDecision AuthDecision
}

// Authenticate runs the chain.
func (c *AuthChain) Authenticate(ctx context.Context, req *api.Request) AuthResult {
	for i, authn := range c.Authenticators {
		result := authn.Authenticate(ctx, req)
		if result.Decision == Abstain {
			continue
		}
		debug.Log(debug.Auth, "authenticator voted",
			"index", i,
			"decision", result.Decision.String(),
			"path", req.Path,
		)
		return result
	}

	if c.DefaultDecision == Yes {
		return Granted(Anonymous())
	}
	return Denied(ErrUnauthenticated)
}
