package cache

// Cache is the in-memory store behind a data loader.
//
// Values are stored as-is; callers own the typing of what they put under a key.
type Cache interface {
	// Get returns the value stored under key and whether it was present
	Get(key string) (interface{}, bool)

	// Set stores value under key, replacing any previous value
	Set(key string, value interface{})

	// Clear removes every item
	Clear()

	// ItemCount returns the number of stored items
	ItemCount() int

	// ItemsWithPrefix returns a snapshot of all items whose key starts with prefix
	ItemsWithPrefix(prefix string) map[string]interface{}
}
