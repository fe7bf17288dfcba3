package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rhuss/restapp/pkg/debug"
)

// RateLimiter decides whether an authenticated caller may proceed. It
// returns ErrTooManyRequests when the caller is over its limit.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// TierConfig is the limit of one service tier. Zero or less means
// unlimited.
type TierConfig struct {
	RequestsPerMinute int
}

// InProcessLimiter counts requests per subject and tier in fixed
// one-minute windows. Counts are local to the process.
type InProcessLimiter struct {
	tiers      map[string]TierConfig
	defaultRPM int
	now        func() time.Time

	mu      sync.Mutex
	windows map[string]*window
	pruned  time.Time
}

type window struct {
	start time.Time
	count int
}

// NewInProcessLimiter returns a limiter using tiers, falling back to
// defaultRPM for tiers without an entry.
func NewInProcessLimiter(tiers map[string]TierConfig, defaultRPM int) *InProcessLimiter {
	return &InProcessLimiter{
		tiers:      tiers,
		defaultRPM: defaultRPM,
		now:        time.Now,
		windows:    make(map[string]*window),
	}
}

// Allow counts the request against the caller's current window.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	tier := tierOf(identity)
	limit := l.limitFor(tier)
	if limit <= 0 {
		return nil
	}

	key := tier + ":" + identity.Subject
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.windows[key] = &window{start: now, count: 1}
		return nil
	}

	w.count++
	if w.count > limit {
		debug.Log(debug.Auth, "in-process rate limit hit", "key", key, "count", w.count, "limit", limit)
		return ErrTooManyRequests
	}
	return nil
}

func (l *InProcessLimiter) limitFor(tier string) int {
	if tc, ok := l.tiers[tier]; ok {
		return tc.RequestsPerMinute
	}
	return l.defaultRPM
}

// prune drops expired windows at most once a minute. Must be called with
// l.mu held.
func (l *InProcessLimiter) prune(now time.Time) {
	if now.Sub(l.pruned) < time.Minute {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.start) >= time.Minute {
			delete(l.windows, key)
		}
	}
	l.pruned = now
}

// tierOf returns the tier an identity is limited and counted under.
func tierOf(id *Identity) string {
	if id == nil || id.ServiceTier == "" {
		return DefaultTier
	}
	return id.ServiceTier
}
