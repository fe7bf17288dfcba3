// Package binding turns request data into handler arguments.
//
// A route declares an ordered list of bindings. [Query] extracts a decoded
// query value and coerces it by trial parsing; [Body] and
// [BodyWithSchema] decode the raw JSON body into a typed value. [Bind]
// evaluates the list against a request and returns the resulting [Args],
// or a *[MissingError] / [ErrInvalidBody] describing why the request
// cannot reach the handler.
//
// Query coercion order is part of the contract: integer, then float, then
// boolean, then the raw string. "12" binds as the integer 12, "3.14" as a
// float, "TRUE" as a boolean and "abc" as a string. Only "true" becomes a
// boolean; "false" stays a string.
package binding
