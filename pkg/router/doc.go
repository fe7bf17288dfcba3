// Package router registers routes and dispatches requests to them.
//
// Registration and serving are separate phases. A [Router] collects
// global middleware, named protection middleware, ad-hoc routes and
// [Controller] endpoints, validating everything as it is added. [Router.Build]
// freezes the route table and returns a [Dispatcher], which is safe for
// concurrent use and never mutated again.
//
// Dispatch order for every request:
//
//  1. global middleware chain; a failure becomes a JSON response carrying
//     the serialized MiddlewareResult and its status
//  2. exact (method, path) lookup; no match is 404 "Not found"
//  3. the route's protection middleware, if any, with the same failure
//     handling as step 1
//  4. argument binding; missing query parameters are 400
//     "Missing query parameters: a, b" and an undecodable body is 400
//     "Invalid body"
//  5. the handler; an error or panic is 500 "Invocation Error: <message>"
package router
