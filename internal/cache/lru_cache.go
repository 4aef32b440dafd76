package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"zindexer/internal/walletrpc"
)

// LRUCache is a fixed-capacity, least-recently-used BlockCache backed
// by hashicorp/golang-lru.
type LRUCache struct {
	inner *lru.Cache[string, *walletrpc.CompactBlock]
}

// NewLRUCache returns an LRUCache holding at most capacity entries.
func NewLRUCache(capacity int) (*LRUCache, error) {
	inner, err := lru.New[string, *walletrpc.CompactBlock](capacity)
	if err != nil {
		return nil, err
	}
	return &LRUCache{inner: inner}, nil
}

// Get returns the cached CompactBlock for fingerprint, if present.
func (c *LRUCache) Get(fingerprint string) (*walletrpc.CompactBlock, bool) {
	return c.inner.Get(fingerprint)
}

// Put stores b under fingerprint, evicting the least recently used
// entry if the cache is at capacity.
func (c *LRUCache) Put(fingerprint string, b *walletrpc.CompactBlock) {
	c.inner.Add(fingerprint, b)
}
