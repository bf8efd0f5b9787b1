package engine

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

const DefaultRateTTL = time.Hour

// FXSource returns how many units of local currency one USD buys.
type FXSource interface {
	Rate(ctx context.Context) (float64, error)
}

// RateCache holds the last good FX rate. A failed refresh keeps the previous
// value; the rate is never cleared once set.
type RateCache struct {
	source FXSource
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	value     float64
	fetchedAt time.Time
}

// NewRateCache seeds the cache with fallback, which is served until the
// first successful fetch.
func NewRateCache(source FXSource, ttl time.Duration, fallback float64) *RateCache {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	if !(fallback > 0) || math.IsInf(fallback, 0) {
		fallback = 1
	}
	return &RateCache{source: source, ttl: ttl, now: time.Now, value: fallback}
}

// Rate returns the cached rate, refreshing it first when it is older than the TTL.
func (c *RateCache) Rate(ctx context.Context) float64 {
	c.mu.RLock()
	value, fetchedAt := c.value, c.fetchedAt
	c.mu.RUnlock()

	if !fetchedAt.IsZero() && c.now().Sub(fetchedAt) < c.ttl {
		return value
	}
	if c.source == nil {
		return value
	}

	fresh, err := c.source.Rate(ctx)
	if err != nil || !(fresh > 0) || math.IsInf(fresh, 0) {
		log.Printf("WARN: FX refresh failed, reusing last rate %.4f: %v", value, err)
		return value
	}

	c.mu.Lock()
	c.value = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return fresh
}

// Snapshot returns the current value and when it was fetched (zero if never).
func (c *RateCache) Snapshot() (float64, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.fetchedAt
}
