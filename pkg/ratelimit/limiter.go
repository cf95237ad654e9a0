package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"
)

// Entry is the fixed-window counter stored per client identifier.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Expired reports whether the window has closed at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ResetAt)
}

// Store holds rate limit entries. Increment must be atomic per key: it
// either starts a fresh window {1, now+window} or bumps the live one.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Entry, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Result is what the caller needs to answer a submission attempt.
type Result struct {
	Allowed           bool
	Limit             int
	Remaining         int
	RetryAfterSeconds int
	ResetAt           time.Time
}

// Config holds the window length and the per-window cap.
type Config struct {
	Limit  int
	Window time.Duration
}

// DefaultConfig is 5 submissions per hour per client.
func DefaultConfig() Config {
	return Config{
		Limit:  5,
		Window: time.Hour,
	}
}

var ErrInvalidConfig = errors.New("ratelimit: limit and window must be positive")

// Limiter is a coarse fixed-window counter. A client can burst up to 2*Limit
// requests across a window boundary; that is accepted behaviour.
type Limiter struct {
	store  Store
	config Config
	now    func() time.Time
}

type Option func(*Limiter)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func NewLimiter(store Store, config Config, opts ...Option) (*Limiter, error) {
	if config.Limit < 1 || config.Window <= 0 {
		return nil, ErrInvalidConfig
	}
	l := &Limiter{
		store:  store,
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Limiter) Config() Config {
	return l.config
}

// CheckAndConsume counts one attempt for clientID and reports whether it is
// still inside the cap.
func (l *Limiter) CheckAndConsume(ctx context.Context, clientID string) (Result, error) {
	now := l.now()

	entry, err := l.store.Increment(ctx, clientID, l.config.Window, now)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Allowed: entry.Count <= l.config.Limit,
		Limit:   l.config.Limit,
		ResetAt: entry.ResetAt,
	}
	res.Remaining = l.config.Limit - entry.Count
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfterSeconds = retryAfterSeconds(entry.ResetAt, now)
	}
	return res, nil
}

// Peek reports the current state for clientID without consuming. Allowed
// means the next hit would pass, unlike CheckAndConsume where it means this
// hit passed.
func (l *Limiter) Peek(ctx context.Context, clientID string) (Result, error) {
	now := l.now()
	entry, ok, err := l.store.Get(ctx, clientID)
	if err != nil {
		return Result{}, err
	}
	if !ok || entry.Expired(now) {
		return Result{Allowed: true, Limit: l.config.Limit, Remaining: l.config.Limit}, nil
	}
	res := Result{
		Allowed: entry.Count < l.config.Limit,
		Limit:   l.config.Limit,
		ResetAt: entry.ResetAt,
	}
	res.Remaining = l.config.Limit - entry.Count
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfterSeconds = retryAfterSeconds(entry.ResetAt, now)
	}
	return res, nil
}

func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
