// Package cache stores raw API payloads with the time they were fetched, so
// callers can decide freshness themselves.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache: miss")

// Entry is one cached payload.
type Entry struct {
	Data     []byte
	StoredAt time.Time
}

// Store is implemented by every backend. Get returns ErrMiss for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, data []byte) error
	Close() error
}

// Fresh reports whether e is younger than maxAge at now. A zero maxAge means
// nothing is ever fresh.
func Fresh(e Entry, maxAge time.Duration, now time.Time) bool {
	if e.StoredAt.IsZero() || maxAge <= 0 {
		return false
	}
	return now.Sub(e.StoredAt) < maxAge
}
