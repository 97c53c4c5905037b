// Package ratelimit implements a fixed-window request throttle backed by a
// shared store, so counts survive restarts and are shared across instances.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/go-auth-dashboard/internal/domain"
)

// Store persists one counter record per key.
type Store interface {
	// Get returns the record for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.RateLimitRecord, error)
	// Create inserts a new record, or domain.ErrConflict if the key exists.
	Create(ctx context.Context, rec *domain.RateLimitRecord) error
	// Reset sets count=1 and lastReset=now for an existing record.
	Reset(ctx context.Context, key string, now int64) error
	// Increment atomically adds 1 to the counter and returns the new count.
	Increment(ctx context.Context, key string) (int, error)
}

// Result is the outcome of a single rate-limit check.
type Result struct {
	Allowed   bool
	Remaining int
}

// Limiter is a fixed-window counter. The window resets at fixed intervals; a
// burst of up to 2x the limit clustered around a window edge is an accepted
// property of the scheme, not a bug.
type Limiter struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// Check records one request against key and reports whether it is allowed.
// Denied requests do not consume from the counter. Under concurrent callers
// the allow path uses the store's atomic increment, so the counter can exceed
// limit by at most the number of racing requests.
func (l *Limiter) Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := l.now().UnixMilli()

	rec, err := l.store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		err = l.store.Create(ctx, &domain.RateLimitRecord{Key: key, Count: 1, LastReset: now})
		if errors.Is(err, domain.ErrConflict) {
			// Lost the create race; count against the winner's window.
			return l.increment(ctx, key, limit)
		}
		if err != nil {
			return Result{}, err
		}
		return Result{Allowed: true, Remaining: limit - 1}, nil
	}
	if err != nil {
		return Result{}, err
	}

	// Strict > : a request at exactly lastReset+window starts a fresh window.
	if now-rec.LastReset > window.Milliseconds() {
		if err := l.store.Reset(ctx, key, now); err != nil {
			return Result{}, err
		}
		return Result{Allowed: true, Remaining: limit - 1}, nil
	}

	if rec.Count >= limit {
		return Result{Allowed: false, Remaining: 0}, nil
	}
	return l.increment(ctx, key, limit)
}

func (l *Limiter) increment(ctx context.Context, key string, limit int) (Result, error) {
	count, err := l.store.Increment(ctx, key)
	if err != nil {
		return Result{}, err
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Remaining: remaining}, nil
}
