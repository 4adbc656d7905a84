package server

import (
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// rateLimiter keeps a token bucket per client key. Buckets live in an LRU
// cache so memory stays bounded no matter how many clients show up; an
// evicted client starts over with a full bucket.
type rateLimiter struct {
	limiters *lru.Cache
	perSec   rate.Limit
	burst    int
}

func newRateLimiter(config RateLimitConfig) (*rateLimiter, error) {
	cache, err := lru.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &rateLimiter{
		limiters: cache,
		perSec:   rate.Limit(config.PerSecond),
		burst:    config.Burst,
	}, nil
}

// Allow reports whether the client identified by key may proceed. Two
// concurrent first requests for a key may each build a bucket; the single
// extra grant is harmless.
func (r *rateLimiter) Allow(key string) bool {
	if v, ok := r.limiters.Get(key); ok {
		return v.(*rate.Limiter).Allow()
	}
	limiter := rate.NewLimiter(r.perSec, r.burst)
	r.limiters.Add(key, limiter)
	return limiter.Allow()
}
