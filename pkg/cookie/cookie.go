// Package cookie builds Set-Cookie header values.
package cookie

import (
	"strconv"
	"strings"

	"github.com/rhuss/restapp/pkg/api"
)

// HeaderName is the response header a cookie is sent in.
const HeaderName = "Set-Cookie"

// NoMaxAge disables the Max-Age attribute.
const NoMaxAge int64 = -1

// Cookie holds the attributes of a single cookie.
type Cookie struct {
	Name     string
	Value    string
	MaxAge   int64
	Expires  string
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
}

// Option customizes a Cookie created by New.
type Option func(*Cookie)

// WithMaxAge sets the Max-Age attribute in seconds.
func WithMaxAge(seconds int64) Option {
	return func(c *Cookie) { c.MaxAge = seconds }
}

// WithExpires sets the Expires attribute. The value is written verbatim.
func WithExpires(expires string) Option {
	return func(c *Cookie) { c.Expires = expires }
}

// WithPath sets the Path attribute. An empty path omits it.
func WithPath(path string) Option {
	return func(c *Cookie) { c.Path = path }
}

// WithDomain sets the Domain attribute.
func WithDomain(domain string) Option {
	return func(c *Cookie) { c.Domain = domain }
}

// Secure marks the cookie Secure.
func Secure() Option {
	return func(c *Cookie) { c.Secure = true }
}

// HTTPOnly marks the cookie HttpOnly.
func HTTPOnly() Option {
	return func(c *Cookie) { c.HTTPOnly = true }
}

// New creates a cookie with the defaults: no Max-Age, no Expires,
// path "/", no domain, neither Secure nor HttpOnly.
func New(name, value string, opts ...Option) Cookie {
	c := Cookie{
		Name:   name,
		Value:  value,
		MaxAge: NoMaxAge,
		Path:   "/",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Attributes renders the cookie as a "; "-joined attribute list in a
// fixed order: name=value, Value, Max-Age, Expires, Path, Domain, Secure,
// HttpOnly. Unset attributes are skipped.
func (c Cookie) Attributes() string {
	attrs := []string{
		c.Name + "=" + c.Value,
		"Value=" + c.Value,
	}
	if c.MaxAge != NoMaxAge {
		attrs = append(attrs, "Max-Age="+strconv.FormatInt(c.MaxAge, 10))
	}
	if c.Expires != "" {
		attrs = append(attrs, "Expires="+c.Expires)
	}
	if c.Path != "" {
		attrs = append(attrs, "Path="+c.Path)
	}
	if c.Domain != "" {
		attrs = append(attrs, "Domain="+c.Domain)
	}
	if c.Secure {
		attrs = append(attrs, "Secure")
	}
	if c.HTTPOnly {
		attrs = append(attrs, "HttpOnly")
	}
	return strings.Join(attrs, "; ")
}

// Header returns the Set-Cookie header entry for the cookie.
func (c Cookie) Header() api.Header {
	return api.Header{Key: HeaderName, Value: c.Attributes()}
}

// Set returns a response option appending the cookie's Set-Cookie header.
func Set(c Cookie) api.ResponseOption {
	return api.WithHeaders(c.Header())
}
