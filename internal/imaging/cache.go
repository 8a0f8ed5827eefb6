package imaging

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// ResultCache remembers encoded enhancement results keyed by a 128-bit
// xxh3 hash of the upload bytes.
//
// Enhancement is deterministic, so a repeated upload can be answered
// without running the engine again. A cache must only be shared by callers
// using the same engine options.
//
// ResultCache is safe for concurrent use. A cache created with size zero is
// disabled: Get always misses and Add does nothing.
//
// # Example Usage
//
//	cache, err := imaging.NewResultCache(64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if png, ok := cache.Get(upload); ok {
//	    // serve png
//	}
//	cache.Add(upload, encoded)
type ResultCache struct {
	entries *lru.Cache
}

// NewResultCache creates a cache holding at most size results.
func NewResultCache(size int) (*ResultCache, error) {
	if size < 0 {
		return nil, errors.Errorf("cache size must not be negative, got %d", size)
	}
	if size == 0 {
		return &ResultCache{}, nil
	}

	entries, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create result cache")
	}
	return &ResultCache{entries: entries}, nil
}

// Get returns the cached result for upload, if present.
func (c *ResultCache) Get(upload []byte) ([]byte, bool) {
	if c.entries == nil {
		return nil, false
	}
	v, ok := c.entries.Get(xxh3.Hash128(upload))
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Add stores result for upload, evicting the least recently used entry if
// the cache is full.
func (c *ResultCache) Add(upload, result []byte) {
	if c.entries == nil {
		return
	}
	c.entries.Add(xxh3.Hash128(upload), result)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Clear removes all cached results.
func (c *ResultCache) Clear() {
	if c.entries == nil {
		return
	}
	c.entries.Purge()
}
