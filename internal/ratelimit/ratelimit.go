// Package ratelimit provides per-key token buckets for outbound provider traffic.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out an independent token bucket per key.
// Keys are provider identifiers, so the map stays small for the process lifetime.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a limiter allowing rps requests per second per key with the given burst.
// A non-positive rps disables limiting.
func New(rps float64, burst int) *KeyedRateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow reports whether a request for key may proceed now, consuming a token if so.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.limiter(key).Allow()
}

// Wait blocks until a token for key is available or ctx is done.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.limiter(key).Wait(ctx)
}

func (krl *KeyedRateLimiter) limiter(key string) *rate.Limiter {
	krl.mu.RLock()
	l, ok := krl.limiters[key]
	krl.mu.RUnlock()
	if ok {
		return l
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	if l, ok = krl.limiters[key]; ok {
		return l
	}
	l = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = l
	return l
}
