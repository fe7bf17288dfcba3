// Package noop provides an authenticator that admits every request as
// the anonymous identity. It is used when authentication is disabled.
package noop

import (
	"context"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/auth"
)

// Authenticator votes Yes for every request.
type Authenticator struct{}

// Authenticate returns [auth.Anonymous].
func (a *Authenticator) Authenticate(_ context.Context, _ *api.Request) auth.AuthResult {
	return auth.Granted(auth.Anonymous())
}
