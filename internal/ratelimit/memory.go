package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Record is one client's window state.
type Record struct {
	Count   int
	ResetAt time.Time
}

// MemoryLimiter keeps windows in process memory.
//
// Entries are overwritten when a window expires but never removed, so the
// table grows with the number of distinct clients for the life of the
// process.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*Record
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates a limiter allowing limit submissions per window.
func NewMemoryLimiter(limit int, window time.Duration, opts *Options) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*Record),
		limit:   limit,
		window:  window,
		now:     opts.now(),
	}
}

// Allow implements Limiter. It never returns an error.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if key == "" {
		key = UnknownClient
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.After(entry.ResetAt) {
		entry = &Record{Count: 1, ResetAt: now.Add(l.window)}
		l.entries[key] = entry
		return Decision{Allowed: true, Count: 1, Limit: l.limit, RetryAfter: l.window}, nil
	}

	entry.Count++

	return Decision{
		Allowed:    entry.Count <= l.limit,
		Count:      entry.Count,
		Limit:      l.limit,
		RetryAfter: entry.ResetAt.Sub(now),
	}, nil
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
