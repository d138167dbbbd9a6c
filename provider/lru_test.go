package provider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCompleter struct{ fakeCompleter }

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", &stubCompleter{})
	c.put("b", &stubCompleter{})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.get("a")
	assert.True(t, ok)

	c.put("c", &stubCompleter{})

	_, ok = c.get("b")
	assert.False(t, ok)

	_, ok = c.get("a")
	assert.True(t, ok)

	_, ok = c.get("c")
	assert.True(t, ok)

	assert.Equal(t, 2, c.len())
}

func TestLRUCache_PutExistingMovesToFront(t *testing.T) {
	c := newLRUCache(2)

	first := &stubCompleter{}
	second := &stubCompleter{}

	c.put("a", first)
	c.put("b", &stubCompleter{})
	c.put("a", second)
	c.put("c", &stubCompleter{})

	// "b" was least recently used after "a" was re-put.
	_, ok := c.get("b")
	assert.False(t, ok)

	got, ok := c.get("a")
	assert.True(t, ok)
	assert.Same(t, second, got)
}

func TestLRUCache_Stats(t *testing.T) {
	c := newLRUCache(4)

	c.put("a", &stubCompleter{})

	_, _ = c.get("a")
	_, _ = c.get("a")
	_, _ = c.get("missing")

	hits, misses := c.stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)

	c.reset()

	hits, misses = c.stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, c.len())
}

func TestLRUCache_CapacityBound(t *testing.T) {
	c := newLRUCache(3)

	for i := 0; i < 10; i++ {
		c.put(fmt.Sprintf("k%d", i), &stubCompleter{})
	}

	assert.Equal(t, 3, c.len())
}
