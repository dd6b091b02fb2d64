// Package price maintains the live NAV quotes handed to the aggregator.
// Quotes live in an explicitly constructed TTL cache; nothing here is
// process-global state.
package price

import (
	"sync"
	"time"

	"github.com/nestegg/nestegg/internal/domain"
)

type cacheEntry struct {
	quote     domain.PriceQuote
	storedAt  time.Time
	expiresAt time.Time
}

// Cache is a TTL quote cache keyed by fund identifier. Constructor-injected
// wherever quotes are needed; safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

// NewCache creates a quote cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Set stores a quote for a fund.
func (c *Cache) Set(fund string, quote domain.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[fund] = cacheEntry{
		quote:     quote,
		storedAt:  now,
		expiresAt: now.Add(c.ttl),
	}
}

// Get returns the quote for a fund if present and not expired.
func (c *Cache) Get(fund string) (domain.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[fund]
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.PriceQuote{}, false
	}
	return entry.quote, true
}

// Snapshot returns all unexpired quotes as a PriceMap for the aggregator.
func (c *Cache) Snapshot() domain.PriceMap {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	m := make(domain.PriceMap, len(c.entries))
	for fund, entry := range c.entries {
		if now.After(entry.expiresAt) {
			continue
		}
		m[fund] = entry.quote
	}
	return m
}

// oldest returns, among the given funds, those with no quote plus the ones
// with the stalest quotes, up to limit. Used by the refresh rotation.
func (c *Cache) oldest(funds []string, limit int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type aged struct {
		fund     string
		storedAt time.Time
	}
	pending := make([]aged, 0, len(funds))
	for _, f := range funds {
		entry, ok := c.entries[f]
		if !ok {
			pending = append(pending, aged{fund: f}) // zero time sorts first
			continue
		}
		pending = append(pending, aged{fund: f, storedAt: entry.storedAt})
	}

	for i := 1; i < len(pending); i++ {
		for j := i; j > 0 && pending[j].storedAt.Before(pending[j-1].storedAt); j-- {
			pending[j], pending[j-1] = pending[j-1], pending[j]
		}
	}

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	out := make([]string, len(pending))
	for i, p := range pending {
		out[i] = p.fund
	}
	return out
}
