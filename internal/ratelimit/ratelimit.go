// Package ratelimit bounds the number of contact submissions accepted per
// client key inside a fixed window.
//
// Limiter.Check reads a record and writes it back without a transaction, so
// concurrent requests for the same key can under- or over-count near a window
// boundary. Treat the counter as a best-effort soft limit, not a linearizable
// guarantee.
package ratelimit

//go:generate mockgen -destination=mock/store.go -package=mock . Store

import (
	"context"
	"fmt"
	"time"
)

const (
	// Window is the length of one rate window.
	Window = 60 * time.Second
	// MaxRequests is the number of submissions accepted per key and window.
	MaxRequests = 5
)

// Record is the per-key counter state kept by a Store.
type Record struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"reset_at"`
}

// Store persists rate limit records by key.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Set(ctx context.Context, key string, record Record) error
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Limited    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter enforces MaxRequests per Window on top of a Store.
type Limiter struct {
	store Store
	nowFn func() time.Time
}

// NewLimiter constructs a Limiter. A nil store selects a fresh MemoryStore and
// a nil clock selects time.Now.
func NewLimiter(store Store, nowFn func() time.Time) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Limiter{store: store, nowFn: nowFn}
}

// Check counts one request for key and reports whether it is limited.
// A limited request does not mutate the stored record.
func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	now := l.nowFn()

	record, ok, errGet := l.store.Get(ctx, key)
	if errGet != nil {
		return Result{}, fmt.Errorf("rate limit: load record: %w", errGet)
	}

	if !ok || !now.Before(record.ResetAt) {
		record = Record{Count: 1, ResetAt: now.Add(Window)}
		if errSet := l.store.Set(ctx, key, record); errSet != nil {
			return Result{}, fmt.Errorf("rate limit: store record: %w", errSet)
		}
		return Result{Remaining: MaxRequests - 1, ResetAt: record.ResetAt}, nil
	}

	if record.Count >= MaxRequests {
		return Result{
			Limited:    true,
			Remaining:  0,
			ResetAt:    record.ResetAt,
			RetryAfter: record.ResetAt.Sub(now),
		}, nil
	}

	record.Count++
	if errSet := l.store.Set(ctx, key, record); errSet != nil {
		return Result{}, fmt.Errorf("rate limit: store record: %w", errSet)
	}
	return Result{Remaining: MaxRequests - record.Count, ResetAt: record.ResetAt}, nil
}
