package cache

import (
	"strings"

	"github.com/patrickmn/go-cache"
)

// GoCache is a Cache backed by go-cache with expiration disabled.
// Items live until the cache is cleared.
type GoCache struct {
	cache *cache.Cache
}

// NewGoCache creates an empty GoCache. No janitor goroutine is started
// because nothing ever expires.
func NewGoCache() *GoCache {
	return &GoCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the value for key
func (gc *GoCache) Get(key string) (interface{}, bool) {
	return gc.cache.Get(key)
}

// Set stores value under key without expiration
func (gc *GoCache) Set(key string, value interface{}) {
	gc.cache.Set(key, value, cache.NoExpiration)
}

// Clear removes all items from cache
func (gc *GoCache) Clear() {
	gc.cache.Flush()
}

// ItemCount returns the number of items in cache
func (gc *GoCache) ItemCount() int {
	return gc.cache.ItemCount()
}

// ItemsWithPrefix returns a copy of the items whose key starts with prefix
func (gc *GoCache) ItemsWithPrefix(prefix string) map[string]interface{} {
	result := make(map[string]interface{})
	for key, item := range gc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			result[key] = item.Object
		}
	}
	return result
}
