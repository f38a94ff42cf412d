// Package ratelimit protects the API with a per-client sliding window.
package ratelimit

import (
	"sync"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window frees up, minimum 1.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// slidingWindow tracks request timestamps inside the window. Unlike a fixed
// window it cannot be gamed by bursting across a boundary.
type slidingWindow struct {
	timestamps []time.Time
}

// cleanup drops entries that are no longer strictly inside the window. An
// entry exactly one window old counts as expired.
func (sw *slidingWindow) cleanup(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// Bucket is an in-memory sliding window limiter keyed by an arbitrary string,
// client IP in practice. Not distributed; each instance enforces its own
// window.
type Bucket struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*slidingWindow
}

// NewBucket creates a limiter allowing limit requests per window per key.
func NewBucket(limit int, window time.Duration) *Bucket {
	return &Bucket{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*slidingWindow),
	}
}

// Allow records a request for key and reports whether it fits in the window.
func (b *Bucket) Allow(key string, now time.Time) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	sw := b.buckets[key]
	if sw == nil {
		sw = &slidingWindow{}
		b.buckets[key] = sw
	}
	sw.cleanup(now, b.window)

	if len(sw.timestamps) >= b.limit {
		return Result{
			Allowed:   false,
			Limit:     b.limit,
			Remaining: 0,
			ResetAt:   sw.timestamps[0].Add(b.window),
		}
	}

	sw.timestamps = append(sw.timestamps, now)
	return Result{
		Allowed:   true,
		Limit:     b.limit,
		Remaining: b.limit - len(sw.timestamps),
		ResetAt:   sw.timestamps[0].Add(b.window),
	}
}

// Reset clears the window for a key.
func (b *Bucket) Reset(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.buckets, key)
}
