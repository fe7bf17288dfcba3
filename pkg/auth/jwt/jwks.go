package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/rhuss/restapp/pkg/debug"
)

// maxKeySetSize bounds the JWKS response body.
const maxKeySetSize = 1 << 20

// keySet caches the RSA signing keys of a JWKS endpoint by key ID.
type keySet struct {
	url        string
	client     *http.Client
	ttl        time.Duration
	minRefresh time.Duration
	now        func() time.Time

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
	attempted time.Time
}

func newKeySet(url string, client *http.Client, ttl, minRefresh time.Duration) *keySet {
	return &keySet{
		url:        url,
		client:     client,
		ttl:        ttl,
		minRefresh: minRefresh,
		now:        time.Now,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// get returns the key for kid, fetching the set when it has expired or
// does not know kid. Fetches for unknown IDs are throttled to one per
// minRefresh. When a fetch fails, a previously known key is still
// returned.
func (s *keySet) get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key, known := s.keys[kid]
	fresh := !s.fetchedAt.IsZero() && now.Sub(s.fetchedAt) < s.ttl
	if known && fresh {
		return key, nil
	}
	if !known && fresh && now.Sub(s.attempted) < s.minRefresh {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}

	s.attempted = now
	if err := s.fetch(ctx, now); err != nil {
		if known {
			slog.Warn("JWKS refresh failed, using cached key", "kid", kid, "error", err)
			return key, nil
		}
		return nil, err
	}

	key, known = s.keys[kid]
	if !known {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

// fetch replaces the cached keys. Must be called with s.mu held.
func (s *keySet) fetch(ctx context.Context, now time.Time) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("creating JWKS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxKeySetSize)).Decode(&doc); err != nil {
		return fmt.Errorf("decoding JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if !k.signsWithRSA() {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			slog.Warn("skipping JWKS key", "kid", k.Kid, "error", err)
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("JWKS contains no usable RSA signing keys")
	}

	s.keys = keys
	s.fetchedAt = now
	debug.Log(debug.Auth, "JWKS refreshed", "keys", len(keys), "url", s.url)
	return nil
}

// jwk is one entry of a JSON Web Key Set.
type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (k jwk) signsWithRSA() bool {
	return k.Kty == "RSA" && k.Kid != "" && (k.Use == "" || k.Use == "sig")
}

func (k jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}
	if len(n) == 0 {
		return nil, errors.New("empty modulus")
	}

	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() < 3 || exp.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("unsupported exponent %s", exp)
	}

	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
