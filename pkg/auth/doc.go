// Package auth authenticates and rate-limits callers as pre-request
// middleware.
//
// An [AuthChain] asks its [Authenticator]s in order. Each one votes:
// [Yes] with an identity, [No] when it recognises the credentials as
// bad, or [Abstain] when they are not its kind. The first non-abstain
// vote decides; if everyone abstains the chain's default decides.
//
// [Guard] adapts a chain, and optionally a [RateLimiter], to
// middleware.Middleware. Install it globally with router.Use or name it
// with router.Name so routes can refer to it as their protection.
// Implementations live in the apikey, jwt, noop and redislimit
// subpackages.
package auth
