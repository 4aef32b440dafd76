package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zindexer/internal/walletrpc"
)

func TestLRUCache_PutGet(t *testing.T) {
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	b := &walletrpc.CompactBlock{Height: 100}
	c.Put("h100", b)

	got, ok := c.Get("h100")
	require.True(t, ok)
	require.Same(t, b, got)
}

func TestLRUCache_MissReturnsFalse(t *testing.T) {
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	_, ok := c.Get("missing")
	require.False(t, ok)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	c.Put("a", &walletrpc.CompactBlock{Height: 1})
	c.Put("b", &walletrpc.CompactBlock{Height: 2})
	c.Get("a") // touch a, making b the LRU entry
	c.Put("c", &walletrpc.CompactBlock{Height: 3})

	_, ok := c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

var _ BlockCache = (*LRUCache)(nil)
