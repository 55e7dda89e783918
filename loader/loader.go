package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/status-im/cards-loader/cache"
	"github.com/status-im/cards-loader/httpclient"
	"github.com/status-im/cards-loader/metrics"
)

// DefaultBasePath is the data directory used when none is given
const DefaultBasePath = "./cards-data/"

// HTTPClient is the transport used to fetch resources. *http.Client and
// *httpclient.Client both satisfy it.
//
//go:generate mockgen -destination=mocks/http_client.go . HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DataLoader fetches the config, the theme registry and per-theme card
// collections below a base path and keeps each one after its first
// successful load. The store lives as long as the DataLoader.
type DataLoader struct {
	basePath      string
	cacheBuster   string
	client        HTTPClient
	store         cache.Cache
	metricsWriter *metrics.MetricsWriter

	flights singleflight.Group

	// mu orders store writes against ClearCache. generation is bumped on
	// every clear so that loads started earlier do not repopulate the store.
	mu         sync.Mutex
	generation uint64
}

// Option configures a DataLoader
type Option func(*DataLoader)

// WithHTTPClient sets the transport
func WithHTTPClient(client HTTPClient) Option {
	return func(l *DataLoader) {
		l.client = client
	}
}

// WithCache replaces the default in-memory store
func WithCache(store cache.Cache) Option {
	return func(l *DataLoader) {
		l.store = store
	}
}

// WithMetricsWriter sets the metrics writer
func WithMetricsWriter(mw *metrics.MetricsWriter) Option {
	return func(l *DataLoader) {
		l.metricsWriter = mw
	}
}

// New creates a DataLoader for basePath. An empty basePath means
// DefaultBasePath. The cache-busting token is fixed here for the
// lifetime of the loader.
func New(basePath string, opts ...Option) *DataLoader {
	if basePath == "" {
		basePath = DefaultBasePath
	}

	l := &DataLoader{
		basePath:    basePath,
		cacheBuster: newCacheBuster(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.client == nil {
		retryOpts := httpclient.DefaultRetryOptions()
		retryOpts.LogPrefix = "DataLoader-HTTP"
		l.client = httpclient.NewClient(retryOpts, nil, nil)
	}
	if l.store == nil {
		l.store = cache.NewGoCache()
	}
	if l.metricsWriter == nil {
		l.metricsWriter = metrics.NewMetricsWriter(metrics.ServiceLoader)
	}

	return l
}

// BasePath returns the prefix all resource URLs are built from
func (l *DataLoader) BasePath() string {
	return l.basePath
}

// CacheBuster returns the token appended to every request URL
func (l *DataLoader) CacheBuster() string {
	return l.cacheBuster
}

// LoadConfig returns the global config document
func (l *DataLoader) LoadConfig(ctx context.Context) (json.RawMessage, error) {
	value, err := l.load(ctx, configKey, configKey, metrics.ResourceConfig, "config.json",
		func(body []byte) (interface{}, error) {
			return decodeConfig(body)
		})
	if err != nil {
		return nil, err
	}
	return slices.Clone(value.(json.RawMessage)), nil
}

// LoadThemes returns the theme registry, i.e. the "themes" property of themes.json
func (l *DataLoader) LoadThemes(ctx context.Context) (ThemeRegistry, error) {
	value, err := l.load(ctx, themesKey, themesKey, metrics.ResourceThemes, "themes.json",
		func(body []byte) (interface{}, error) {
			return decodeThemes(body)
		})
	if err != nil {
		return nil, err
	}
	return value.(ThemeRegistry).clone(), nil
}

// LoadThemeCards returns the card collection of one theme
func (l *DataLoader) LoadThemeCards(ctx context.Context, themeID string) (CardCollection, error) {
	value, err := l.load(ctx, cardsKey(themeID), cardsResource(themeID), metrics.ResourceCards, cardsPath(themeID),
		func(body []byte) (interface{}, error) {
			return decodeCards(themeID, body)
		})
	if err != nil {
		return nil, err
	}
	return value.(CardCollection).clone(), nil
}

type cardsResult struct {
	themeID string
	err     error
}

// LoadAllCards loads the cards of every theme in the registry concurrently.
// It returns on the first failure without waiting for the remaining loads;
// those keep running and whatever succeeds stays cached.
func (l *DataLoader) LoadAllCards(ctx context.Context) (map[string]CardCollection, error) {
	themes, err := l.LoadThemes(ctx)
	if err != nil {
		return nil, err
	}

	results := make(chan cardsResult, len(themes))
	for themeID := range themes {
		go func(themeID string) {
			_, err := l.LoadThemeCards(ctx, themeID)
			results <- cardsResult{themeID: themeID, err: err}
		}(themeID)
	}

	for range themes {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
	}

	return l.cardsSnapshot(), nil
}

// LoadAll loads the config, the theme registry and every theme's cards, in
// that order, and returns the aggregated data
func (l *DataLoader) LoadAll(ctx context.Context) (Data, error) {
	if _, err := l.LoadConfig(ctx); err != nil {
		log.Printf("DataLoader: error loading all data: %v", err)
		return Data{}, err
	}
	if _, err := l.LoadThemes(ctx); err != nil {
		log.Printf("DataLoader: error loading all data: %v", err)
		return Data{}, err
	}
	if _, err := l.LoadAllCards(ctx); err != nil {
		log.Printf("DataLoader: error loading all data: %v", err)
		return Data{}, err
	}
	return l.GetData(), nil
}

// GetData returns what is currently loaded. Nothing loaded yields empty maps.
func (l *DataLoader) GetData() Data {
	themes := ThemeRegistry{}
	if value, ok := l.store.Get(themesKey); ok {
		themes = value.(ThemeRegistry).clone()
	}
	return Data{
		Themes: themes,
		Cards:  l.cardsSnapshot(),
	}
}

// ClearCache drops every loaded resource. The base path and the
// cache-busting token are kept.
func (l *DataLoader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	l.store.Clear()
	l.metricsWriter.RecordCacheSize(0)
	log.Printf("DataLoader: cache cleared for %s", l.basePath)
}

// GetStats returns counts for the currently loaded data
func (l *DataLoader) GetStats() Stats {
	stats := Stats{
		CardsByTheme: make(map[string]int),
		CacheSize:    l.store.ItemCount(),
	}

	if value, ok := l.store.Get(themesKey); ok {
		stats.Themes = len(value.(ThemeRegistry))
	}

	for key, value := range l.store.ItemsWithPrefix(cardsKeyPrefix) {
		count := len(value.(CardCollection))
		stats.CardsByTheme[themeIDFromKey(key)] = count
		stats.TotalCards += count
	}

	return stats
}

func (l *DataLoader) cardsSnapshot() map[string]CardCollection {
	items := l.store.ItemsWithPrefix(cardsKeyPrefix)
	cards := make(map[string]CardCollection, len(items))
	for key, value := range items {
		cards[themeIDFromKey(key)] = value.(CardCollection).clone()
	}
	return cards
}

func (l *DataLoader) currentGeneration() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// storeIfCurrent stores value unless the cache was cleared after gen was taken
func (l *DataLoader) storeIfCurrent(gen uint64, key string, value interface{}) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.generation != gen {
		return false
	}
	l.store.Set(key, value)
	l.metricsWriter.RecordCacheSize(l.store.ItemCount())
	return true
}

// load is the cache-check, fetch, decode, store sequence shared by all
// resources. Concurrent loads of one key share a single fetch.
func (l *DataLoader) load(
	ctx context.Context,
	key string,
	resource string,
	kind string,
	path string,
	decode func([]byte) (interface{}, error),
) (interface{}, error) {
	if value, ok := l.store.Get(key); ok {
		l.metricsWriter.RecordCacheLookup(kind, true)
		return value, nil
	}
	l.metricsWriter.RecordCacheLookup(kind, false)

	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Resource: resource, Err: err}
	}

	gen := l.currentGeneration()
	flightKey := fmt.Sprintf("%d:%s", gen, key)

	// The shared fetch outlives any single caller; each caller stops
	// waiting when its own context is done.
	fetchCtx := context.WithoutCancel(ctx)
	results := l.flights.DoChan(flightKey, func() (interface{}, error) {
		// A previous flight may have finished between the lookup above and now
		if value, ok := l.store.Get(key); ok {
			return value, nil
		}

		start := time.Now()
		body, err := l.fetch(fetchCtx, resource, path)
		if err != nil {
			l.metricsWriter.RecordResourceLoad(kind, loadStatus(err), time.Since(start))
			return nil, err
		}

		value, err := decode(body)
		if err != nil {
			l.metricsWriter.RecordResourceLoad(kind, metrics.StatusMalformed, time.Since(start))
			return nil, err
		}
		l.metricsWriter.RecordResourceLoad(kind, metrics.StatusSuccess, time.Since(start))

		if !l.storeIfCurrent(gen, key, value) {
			log.Printf("DataLoader: %s loaded after cache was cleared, not caching", resource)
		}
		return value, nil
	})

	select {
	case res := <-results:
		if res.Err != nil {
			log.Printf("DataLoader: error loading %s: %v", resource, res.Err)
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		err := &TransportError{Resource: resource, Err: ctx.Err()}
		log.Printf("DataLoader: error loading %s: %v", resource, err)
		return nil, err
	}
}

// fetch issues the GET for path and returns the body of a 2xx response
func (l *DataLoader) fetch(ctx context.Context, resource, path string) ([]byte, error) {
	url := withCacheBuster(l.basePath+path, l.cacheBuster)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &HTTPStatusError{
			Resource:   resource,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: url, Err: fmt.Errorf("error reading response: %w", err)}
	}
	return body, nil
}

func loadStatus(err error) string {
	switch err.(type) {
	case *HTTPStatusError:
		return metrics.StatusHTTPError
	case *TransportError:
		return metrics.StatusTransportError
	case *MalformedDataError:
		return metrics.StatusMalformed
	default:
		return metrics.StatusError
	}
}
