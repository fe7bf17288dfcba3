// Package zoo is a small example application built on the router. It
// exposes a controller under /animals backed by a pluggable [Store].
//
// The controller exercises every binding kind: plain handlers, coerced
// query parameters, a schema-checked JSON body, a named protection
// middleware and responses carrying several Set-Cookie headers.
package zoo
