// Package ratelimit keeps one token bucket per key (a user, a channel).
//
// Example usage:
//
//	lim := ratelimit.NewKeyed(2*time.Second, 5)
//	if !lim.Allow(userID) {
//	    return errTooFast
//	}
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long a bucket may sit unused before it is dropped.
// A bucket idle that long has refilled completely, so dropping it is lossless
// as long as idleAfter >= every * burst.
const idleAfter = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed hands out one limiter per key. Thread-safe.
type Keyed struct {
	mu      sync.Mutex
	every   time.Duration
	burst   int
	entries map[string]*entry
	now     func() time.Time
	pruned  time.Time
}

// NewKeyed refills one token per every, holding at most burst. every <= 0
// disables limiting.
func NewKeyed(every time.Duration, burst int) *Keyed {
	if burst < 1 {
		burst = 1
	}
	return &Keyed{
		every:   every,
		burst:   burst,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow consumes a token for key and reports whether one was available.
func (k *Keyed) Allow(key string) bool {
	if k == nil || k.every <= 0 {
		return true
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	k.prune(now)

	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(k.every), k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *Keyed) prune(now time.Time) {
	window := idleAfter
	if full := k.every * time.Duration(k.burst); full > window {
		window = full
	}
	if now.Sub(k.pruned) < window {
		return
	}
	k.pruned = now
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) >= window {
			delete(k.entries, key)
		}
	}
}
