package api

import (
	"net/textproto"
	"strings"
)

// Method is an HTTP request method understood by the router.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead, MethodOptions:
		return true
	}
	return false
}

// String returns the method name.
func (m Method) String() string {
	return string(m)
}

// ParseMethod converts a method name (case-insensitive) into a Method.
// The second return value is false when the name is not supported.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Request is the transport-agnostic form of an inbound HTTP request.
//
// Path never contains the query component; decoded query values live in
// Queries. Transport adapters create a Request once per message and hand
// it to the dispatcher; nothing mutates it afterwards.
type Request struct {
	Method  Method
	Path    string
	Body    string
	Headers map[string]string
	Queries map[string]string
}

// NewRequest builds a Request. Nil maps are replaced with empty ones so
// lookups never need a nil check.
func NewRequest(method Method, path, body string, headers, queries map[string]string) *Request {
	if headers == nil {
		headers = map[string]string{}
	}
	if queries == nil {
		queries = map[string]string{}
	}
	return &Request{
		Method:  method,
		Path:    path,
		Body:    body,
		Headers: headers,
		Queries: queries,
	}
}

// Header returns the value of the named header. Names match
// case-insensitively, so "X-Request-ID" finds the canonical
// "X-Request-Id" stored by the HTTP adapter.
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	if v, ok := r.Headers[textproto.CanonicalMIMEHeaderKey(name)]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Query returns the decoded query value for name and whether it was present.
func (r *Request) Query(name string) (string, bool) {
	v, ok := r.Queries[name]
	return v, ok
}
