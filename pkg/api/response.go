package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentKind selects the Content-Type written for a Response.
type ContentKind int

const (
	// KindText is a plain text body.
	KindText ContentKind = iota
	// KindJSON is a JSON document body.
	KindJSON
)

// ContentType returns the fixed MIME type for the kind.
func (k ContentKind) ContentType() string {
	switch k {
	case KindJSON:
		return "application/json"
	default:
		return "text/plain"
	}
}

// String returns a short name for the kind, used in logs.
func (k ContentKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	default:
		return "text"
	}
}

// Header is a single response header entry. Responses carry headers as an
// ordered list so that a key may appear more than once.
type Header struct {
	Key   string
	Value string
}

// Response is the value returned to the transport adapter.
type Response struct {
	Status  int
	Body    string
	Kind    ContentKind
	Headers []Header
}

// HeaderValue returns the first value for key, or "" if absent.
func (r *Response) HeaderValue(key string) string {
	for _, h := range r.Headers {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}

// HeaderValues returns every value for key in insertion order.
func (r *Response) HeaderValues(key string) []string {
	var values []string
	for _, h := range r.Headers {
		if h.Key == key {
			values = append(values, h.Value)
		}
	}
	return values
}

// ResponseOption customizes a Response built by JSON, Plain or Redirect.
type ResponseOption func(*Response)

// WithStatus overrides the default status code.
func WithStatus(status int) ResponseOption {
	return func(r *Response) { r.Status = status }
}

// WithHeader appends a header entry. Repeated keys are kept.
func WithHeader(key, value string) ResponseOption {
	return func(r *Response) { r.Headers = append(r.Headers, Header{Key: key, Value: value}) }
}

// WithHeaders appends several header entries in order.
func WithHeaders(headers ...Header) ResponseOption {
	return func(r *Response) { r.Headers = append(r.Headers, headers...) }
}

func newResponse(status int, body string, kind ContentKind, opts []ResponseOption) *Response {
	r := &Response{Status: status, Body: body, Kind: kind}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSON encodes value as the body of a JSON response (status 200 unless
// overridden). It fails only if value cannot be encoded.
func JSON(value any, opts ...ResponseOption) (*Response, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON response: %w", err)
	}
	return newResponse(http.StatusOK, string(data), KindJSON, opts), nil
}

// Plain builds a text response (status 200 unless overridden).
func Plain(text string, opts ...ResponseOption) *Response {
	return newResponse(http.StatusOK, text, KindText, opts)
}

// Redirect builds an empty text response with a Location header
// (status 302 unless overridden).
func Redirect(location string, opts ...ResponseOption) *Response {
	r := newResponse(http.StatusFound, "", KindText, opts)
	r.Headers = append(r.Headers, Header{Key: "Location", Value: location})
	return r
}
