package api

import (
	"errors"
	"fmt"
)

// Sentinel configuration errors. Registration wraps them in a ConfigError
// carrying the offending route.
var (
	ErrDuplicateRoute      = errors.New("route already registered")
	ErrMultipleBodies      = errors.New("more than one body binding")
	ErrNilHandler          = errors.New("handler must produce a response")
	ErrUnknownProtection   = errors.New("protection middleware not registered")
	ErrInvalidMethod       = errors.New("unsupported method")
	ErrInvalidBinding      = errors.New("invalid parameter binding")
	ErrRouterFrozen        = errors.New("router already built")
	ErrDuplicateMiddleware = errors.New("middleware name already registered")
	ErrInvalidMiddleware   = errors.New("middleware name and instance are required")
)

// ConfigError reports a misconfiguration detected while routes or
// middleware are being registered. It is fatal at startup and never
// produced while serving.
type ConfigError struct {
	Method Method
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Method == "" && e.Path == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps err with the route it applies to.
func NewConfigError(method Method, path string, err error) *ConfigError {
	return &ConfigError{Method: method, Path: path, Err: err}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
