// Package ratelimit implements the fixed-window submission limit applied
// per client identifier.
//
// A window starts on the first submission from a key. Later submissions
// inside the window increment the count; once the count exceeds the limit the
// submission is rejected until the window's reset time has passed, at which
// point the count restarts at 1.
package ratelimit

import (
	"context"
	"time"
)

// UnknownClient is the key used when no client identifier can be derived.
const UnknownClient = "unknown"

// Decision is the result of one Allow call.
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	// RetryAfter is how long until the current window resets.
	RetryAfter time.Duration
}

// Limiter decides whether a submission from key may proceed.
//
// Implementations do not need to be strictly linearizable: concurrent bursts
// from the same key may be over- or under-counted by one.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Options tunes a limiter. A nil *Options uses the defaults.
type Options struct {
	TimeProvider func() time.Time
}

func (o *Options) now() func() time.Time {
	if o != nil && o.TimeProvider != nil {
		return o.TimeProvider
	}
	return time.Now
}
