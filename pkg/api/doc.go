// Package api defines the value types shared by the restapp router,
// its middleware and its transport adapters.
//
// A [Request] is created once per inbound message by a transport adapter
// and is never mutated afterwards. A [Response] is produced by a handler
// or by the dispatcher itself (not found, binding and invocation errors)
// and is written back unchanged by the adapter.
//
// Core types:
//   - [Request]: method, path, raw body, headers and decoded query values
//   - [Response]: status, body, content kind and an ordered header list
//   - [MiddlewareResult]: the verdict of a pre-request hook
//   - [ConfigError]: a registration-time misconfiguration
//
// The constructors [JSON], [Plain] and [Redirect] cover the common
// response shapes. Response headers are kept as an ordered list of
// [Header] pairs so repeated keys such as Set-Cookie survive.
//
// The package performs no I/O.
package api
