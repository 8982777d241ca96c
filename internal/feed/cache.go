package feed

import (
	"context"
	"sync"
	"time"

	"github.com/solarbeat/newsfeed/internal/domain"
)

// DefaultCacheTTL is how long a cached response stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	articles []domain.Article
	storedAt time.Time
}

// Cache is the per-parameter response cache. Entries hold pre-curation
// articles; the curation overlay is applied at serve time so editorial
// changes are visible without invalidation.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[domain.FeedKey]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[domain.FeedKey]cacheEntry),
	}
}

// Get returns the cached articles for key if present and younger than the
// TTL; expired entries are treated as misses and left for the sweep.
func (c *Cache) Get(key domain.FeedKey) ([]domain.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.articles, true
}

// Set unconditionally replaces the entry for key.
func (c *Cache) Set(key domain.FeedKey, articles []domain.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{articles: articles, storedAt: c.now()}
}

// Sweep deletes every expired entry and returns how many were removed.
// This bounds memory even for keys no longer being requested.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps the cache once per TTL interval until ctx is cancelled.
func (c *Cache) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 {
				logger := domain.LoggerFromContext(ctx)
				logger.DebugContext(ctx, "swept expired cache entries", "removed", removed)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Len is a test hook.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
