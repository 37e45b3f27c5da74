package evaluation

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL is how long a cached evaluation stays servable.
	DefaultCacheTTL = 24 * time.Hour

	// cacheHighWater is the entry count above which a Put triggers a sweep.
	// The sweep removes only expired entries, so the bound is soft: fresh
	// entries are never evicted.
	cacheHighWater = 50
)

// Fingerprint identifies one evaluation input.
type Fingerprint string

// FingerprintFor derives the cache key from the mode and the full input text.
// Identical inputs in the same mode always map to the same key.
func FingerprintFor(mode Mode, text string) Fingerprint {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d:%s", mode, len(text), text)))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Cache is a TTL-bounded store of parsed evaluation records. It is safe for
// concurrent use. A disabled cache misses on every Get and drops every Put,
// so toggling it must never change results.
type Cache struct {
	enabled bool
	ttl     time.Duration

	entries sync.Map // Fingerprint -> cacheEntry

	now func() time.Time
}

type cacheEntry struct {
	record    *Record
	createdAt time.Time
}

// CacheStatus is a point-in-time snapshot for operators.
type CacheStatus struct {
	Enabled    bool          `json:"enabled"`
	Size       int           `json:"size"`
	TTL        time.Duration `json:"ttl"`
	EntryCount int           `json:"entry_count"`
}

// NewCache builds a cache. A non-positive ttl falls back to DefaultCacheTTL.
func NewCache(enabled bool, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		enabled: enabled,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Get returns a copy of the cached record. Entries older than the TTL are
// treated as absent but left in place; Put and the sweep own removal.
func (c *Cache) Get(fp Fingerprint) (*Record, bool) {
	if !c.Enabled() {
		return nil, false
	}

	value, ok := c.entries.Load(fp)
	if !ok {
		return nil, false
	}

	entry := value.(cacheEntry)
	if c.now().Sub(entry.createdAt) > c.ttl {
		return nil, false
	}

	return entry.record.Clone(), true
}

// Put stores the record, overwriting any previous entry for the key, and
// sweeps expired entries once the cache has grown past the high-water mark.
func (c *Cache) Put(fp Fingerprint, record *Record) {
	if !c.Enabled() || record == nil {
		return
	}

	c.entries.Store(fp, cacheEntry{record: record.Clone(), createdAt: c.now()})

	if c.count() > cacheHighWater {
		c.sweep()
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// Status reports the current cache shape.
func (c *Cache) Status() CacheStatus {
	if c == nil {
		return CacheStatus{}
	}
	count := c.count()
	return CacheStatus{
		Enabled:    c.enabled,
		Size:       count,
		TTL:        c.ttl,
		EntryCount: count,
	}
}

func (c *Cache) count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (c *Cache) sweep() {
	now := c.now()
	c.entries.Range(func(key, value any) bool {
		if now.Sub(value.(cacheEntry).createdAt) > c.ttl {
			c.entries.Delete(key)
		}
		return true
	})
}
