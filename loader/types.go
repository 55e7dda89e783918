package loader

import (
	"encoding/json"
	"slices"
)

// ThemeRegistry maps a theme id to its metadata. Metadata is opaque to the loader.
type ThemeRegistry map[string]json.RawMessage

// CardCollection is the ordered list of cards of one theme. An empty
// collection is a valid, loaded result.
type CardCollection []json.RawMessage

// clone copies the registry including the metadata bytes
func (r ThemeRegistry) clone() ThemeRegistry {
	out := make(ThemeRegistry, len(r))
	for id, meta := range r {
		out[id] = slices.Clone(meta)
	}
	return out
}

// clone copies the collection including each card's bytes
func (c CardCollection) clone() CardCollection {
	out := make(CardCollection, len(c))
	for i, card := range c {
		out[i] = slices.Clone(card)
	}
	return out
}

// Data is the aggregated view returned by GetData and LoadAll
type Data struct {
	Themes ThemeRegistry             `json:"themes"`
	Cards  map[string]CardCollection `json:"cards"`
}

// Stats is a snapshot of what is currently loaded
type Stats struct {
	Themes       int            `json:"themes"`
	TotalCards   int            `json:"totalCards"`
	CardsByTheme map[string]int `json:"cardsByTheme"`
	CacheSize    int            `json:"cacheSize"`
}
