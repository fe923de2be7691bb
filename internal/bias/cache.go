// Package bias analyzes academic text for research biases using
// generative-AI providers.
//
// The analyzer builds a bias-detection prompt, tries an ordered chain of
// providers until one answers, defensively parses the model's JSON
// response, and caches results by content hash with a time-to-live.
// Provider failures never surface as errors to the caller; they degrade
// to a neutral result carrying the failure description.
package bias

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

// DefaultCacheTTL is the default lifetime of a cached analysis result.
const DefaultCacheTTL = time.Hour

// Cache stores analysis results keyed by a hash of the analyzed text.
// Entries expire after a fixed TTL measured from insertion; expiry is
// checked on read. Safe for concurrent use. Concurrent writes for the
// same key are last-write-wins, which is acceptable because both writers
// would store equivalent results for the same text.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	result   domain.BiasAnalysisResult
	storedAt time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL uses
// DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for text if present and not expired.
// Expired entries are removed on read.
func (c *Cache) Get(text string) (domain.BiasAnalysisResult, bool) {
	key := hashText(text)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.BiasAnalysisResult{}, false
	}

	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry meanwhile.
		if cur, ok := c.entries[key]; ok && c.now().Sub(cur.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return domain.BiasAnalysisResult{}, false
	}

	return entry.result, true
}

// Set stores a result for text.
func (c *Cache) Set(text string, result domain.BiasAnalysisResult) {
	key := hashText(text)

	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, including any not yet
// evicted by an expiring read.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// hashText derives the cache key for a text.
func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
