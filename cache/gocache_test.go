package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoCache_Basic(t *testing.T) {
	cache := NewGoCache()

	cache.Set("config", map[string]string{"title": "Vocabulary"})
	cache.Set("themes", []string{"mario", "zelda"})

	value, found := cache.Get("config")
	assert.True(t, found)
	assert.Equal(t, map[string]string{"title": "Vocabulary"}, value)

	value, found = cache.Get("themes")
	assert.True(t, found)
	assert.Equal(t, []string{"mario", "zelda"}, value)

	_, found = cache.Get("missing")
	assert.False(t, found)

	assert.Equal(t, 2, cache.ItemCount())
}

func TestGoCache_SetReplaces(t *testing.T) {
	cache := NewGoCache()

	cache.Set("key", 1)
	cache.Set("key", 2)

	value, found := cache.Get("key")
	assert.True(t, found)
	assert.Equal(t, 2, value)
	assert.Equal(t, 1, cache.ItemCount())
}

func TestGoCache_Clear(t *testing.T) {
	cache := NewGoCache()

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	assert.Equal(t, 2, cache.ItemCount())

	cache.Clear()

	_, found := cache.Get("key1")
	assert.False(t, found)
	assert.Equal(t, 0, cache.ItemCount())
}

func TestGoCache_ItemsWithPrefix(t *testing.T) {
	cache := NewGoCache()

	cache.Set("config", "c")
	cache.Set("themes", "t")
	cache.Set("cards/mario", 3)
	cache.Set("cards/zelda", 0)

	items := cache.ItemsWithPrefix("cards/")
	assert.Len(t, items, 2)
	assert.Equal(t, 3, items["cards/mario"])
	assert.Equal(t, 0, items["cards/zelda"])

	// Snapshot is detached from the cache
	cache.Set("cards/peach", 5)
	assert.Len(t, items, 2)
	assert.Len(t, cache.ItemsWithPrefix("cards/"), 3)

	assert.Empty(t, cache.ItemsWithPrefix("nothing/"))
}

func TestGoCache_ImplementsCache(t *testing.T) {
	var _ Cache = NewGoCache()
}
