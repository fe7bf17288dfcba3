// Package apikey authenticates bearer tokens against a fixed set of API
// keys. Only SHA-256 digests of the keys are kept.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/auth"
	"github.com/rhuss/restapp/pkg/debug"
)

var errEmptyToken = errors.New("empty bearer token")

// Entry binds a plaintext key to the identity it authenticates.
type Entry struct {
	Key      string
	Identity auth.Identity
}

type hashedKey struct {
	digest   [sha256.Size]byte
	identity auth.Identity
}

// Authenticator matches bearer tokens against the configured keys.
type Authenticator struct {
	keys []hashedKey
}

// New hashes entries and returns an authenticator for them.
func New(entries []Entry) *Authenticator {
	keys := make([]hashedKey, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, hashedKey{
			digest:   sha256.Sum256([]byte(e.Key)),
			identity: *e.Identity.Clone(),
		})
	}
	return &Authenticator{keys: keys}
}

// Authenticate abstains without a bearer token, votes No for an unknown
// or empty token and Yes with a copy of the key's identity otherwise.
// Every configured key is compared in constant time.
func (a *Authenticator) Authenticate(_ context.Context, req *api.Request) auth.AuthResult {
	token, ok := auth.BearerToken(req)
	if !ok {
		return auth.Abstained()
	}
	if token == "" {
		return auth.Denied(errEmptyToken)
	}

	digest := sha256.Sum256([]byte(token))
	match := -1
	for i := range a.keys {
		if subtle.ConstantTimeCompare(digest[:], a.keys[i].digest[:]) == 1 {
			match = i
		}
	}
	if match < 0 {
		debug.Log(debug.Auth, "unknown api key", "path", req.Path)
		return auth.Denied(auth.ErrUnauthenticated)
	}
	return auth.Granted(a.keys[match].identity.Clone())
}

// Len returns the number of configured keys.
func (a *Authenticator) Len() int {
	return len(a.keys)
}
