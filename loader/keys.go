package loader

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Cache keys. Card keys live under their own prefix, which the two
// singleton keys do not start with.
const (
	configKey      = "config"
	themesKey      = "themes"
	cardsKeyPrefix = "cards/"
)

const cacheBusterParam = "v"

func cardsKey(themeID string) string {
	return cardsKeyPrefix + themeID
}

func themeIDFromKey(key string) string {
	return strings.TrimPrefix(key, cardsKeyPrefix)
}

func cardsResource(themeID string) string {
	return "cards/" + themeID
}

func cardsPath(themeID string) string {
	return "cards/" + url.PathEscape(themeID) + ".json"
}

// newCacheBuster returns a time-ordered UUIDv7, so two loaders never share a token.
func newCacheBuster() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// withCacheBuster appends v=<token> to rawURL
func withCacheBuster(rawURL, token string) string {
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + cacheBusterParam + "=" + url.QueryEscape(token)
}
