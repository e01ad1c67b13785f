// Package cache holds the process-wide snapshot of the latest good result
// set. One slot, replaced wholesale; entries expire by age, never by eviction.
package cache

import (
	"sync"
	"time"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

// Clock supplies the current time. Injectable so tests control freshness.
type Clock func() time.Time

// ResultCache is the single-slot cache for validated drawings.
type ResultCache struct {
	now Clock

	mu        sync.RWMutex
	results   []models.DrawResult
	fetchedAt time.Time
}

// New returns an empty cache. A nil clock means wall time.
func New(now Clock) *ResultCache {
	if now == nil {
		now = time.Now
	}
	return &ResultCache{now: now}
}

// Get returns a copy of the cached results and their age. ok is false when
// the slot was never populated; entries never expire out of the slot, they
// only grow stale.
func (c *ResultCache) Get() ([]models.DrawResult, time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return nil, 0, false
	}
	out := make([]models.DrawResult, len(c.results))
	copy(out, c.results)
	return out, c.now().Sub(c.fetchedAt), true
}

// Put replaces the snapshot and restarts the freshness window. Callers only
// store non-empty validated sets; failures never reach the slot.
func (c *ResultCache) Put(results []models.DrawResult) {
	stored := make([]models.DrawResult, len(results))
	copy(stored, results)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = stored
	c.fetchedAt = c.now()
}

// Fresh reports whether the slot holds data younger than window.
func (c *ResultCache) Fresh(window time.Duration) bool {
	_, age, ok := c.Get()
	return ok && age < window
}

// LastFetch returns when the slot was last populated, zero if never.
func (c *ResultCache) LastFetch() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}
