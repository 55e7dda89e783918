package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// LoaderConfig configures where card data is loaded from and how often
type LoaderConfig struct {
	// BasePath is an http(s) or file URL, or a local directory
	BasePath string `yaml:"base_path" env:"CARDS_BASE_PATH"`

	// WarmUp loads everything when the service starts
	WarmUp bool `yaml:"warm_up" env:"CARDS_WARM_UP"`

	// ReloadInterval replaces the loader with a freshly loaded one on this
	// interval. 0 disables periodic reloads.
	ReloadInterval time.Duration `yaml:"reload_interval" env:"CARDS_RELOAD_INTERVAL"`
}

// DefaultLoaderConfig returns default loader configuration
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		BasePath: "./cards-data/",
		WarmUp:   true,
	}
}

// ResolvedBasePath returns BasePath as a URL prefix ending in "/".
// Local directories become absolute file:// URLs.
func (c LoaderConfig) ResolvedBasePath() (string, error) {
	basePath := c.BasePath
	if basePath == "" {
		return "", fmt.Errorf("loader.base_path must be set")
	}

	if u, err := url.Parse(basePath); err == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return withTrailingSlash(basePath), nil
		}
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("resolve base path %s: %w", basePath, err)
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return withTrailingSlash("file://" + abs), nil
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
