// Package redislimit provides a rate limiter whose counters live in Redis,
// so that several server instances share one budget per caller.
//
// Each caller gets one counter per fixed one-minute window. The limiter
// fails open: when Redis cannot be reached the request is allowed and a
// warning is logged.
package redislimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rhuss/restapp/pkg/auth"
	"github.com/rhuss/restapp/pkg/debug"
)

// Window is the length of one counting window.
const Window = time.Minute

// DefaultKeyPrefix prefixes every counter key.
const DefaultKeyPrefix = "restapp:ratelimit"

// Config holds connection and limit settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string

	// RequestsPerMinute applies to tiers without an entry in Tiers.
	// Zero or less disables limiting.
	RequestsPerMinute int
	Tiers             map[string]auth.TierConfig
}

// Limiter implements auth.RateLimiter on top of Redis INCR and EXPIRE.
type Limiter struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Limiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client. The limiter takes ownership and
// closes it in Close.
func NewWithClient(client *redis.Client, cfg Config) *Limiter {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &Limiter{client: client, cfg: cfg, now: time.Now}
}

// Allow increments the caller's counter for the current window and
// returns auth.ErrTooManyRequests once the tier's budget is used up.
func (l *Limiter) Allow(ctx context.Context, identity *auth.Identity) error {
	tier := identity.ServiceTier
	if tier == "" {
		tier = auth.DefaultTier
	}

	rpm := l.cfg.RequestsPerMinute
	if tc, ok := l.cfg.Tiers[tier]; ok {
		rpm = tc.RequestsPerMinute
	}
	if rpm <= 0 {
		return nil
	}

	key := l.key(tier, identity.Subject)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, 2*Window)
		return nil
	})
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing request",
			"subject", identity.Subject,
			"error", err,
		)
		return nil
	}

	count := incr.Val()
	debug.Log(debug.Auth, "rate limit counter",
		"key", key,
		"count", count,
		"limit", rpm,
	)

	if count > int64(rpm) {
		return auth.ErrTooManyRequests
	}
	return nil
}

// Close releases the Redis connection pool.
func (l *Limiter) Close() error {
	return l.client.Close()
}

func (l *Limiter) key(tier, subject string) string {
	window := l.now().Unix() / int64(Window/time.Second)
	return l.cfg.KeyPrefix + ":" + tier + ":" + subject + ":" + strconv.FormatInt(window, 10)
}
