package cards_data

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/status-im/cards-loader/config"
	"github.com/status-im/cards-loader/events"
	"github.com/status-im/cards-loader/httpclient"
	"github.com/status-im/cards-loader/loader"
	"github.com/status-im/cards-loader/metrics"
)

// Service owns the current DataLoader and replaces it on reload
type Service struct {
	config              config.LoaderConfig
	basePath            string
	client              loader.HTTPClient
	metricsWriter       *metrics.MetricsWriter
	subscriptionManager *events.SubscriptionManager
	current             struct {
		sync.RWMutex
		loader *loader.DataLoader
	}
	periodicUpdater *PeriodicUpdater
	initialized     atomic.Bool
}

// NewService creates the cards data service from configuration
func NewService(cfg *config.Config) (*Service, error) {
	basePath, err := cfg.Loader.ResolvedBasePath()
	if err != nil {
		return nil, err
	}

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceCards)

	retryOpts := httpclient.RetryOptions{
		MaxRetries:        cfg.HTTPClient.MaxRetries,
		BaseBackoff:       cfg.HTTPClient.BaseBackoff,
		LogPrefix:         "Cards-HTTP",
		ConnectionTimeout: cfg.HTTPClient.ConnectionTimeout,
		RequestTimeout:    cfg.HTTPClient.RequestTimeout,
	}
	limiter := httpclient.NewLimiter(cfg.HTTPClient.RateLimitPerMinute, cfg.HTTPClient.Burst)

	service := &Service{
		config:              cfg.Loader,
		basePath:            basePath,
		client:              httpclient.NewClient(retryOpts, metricsWriter, limiter),
		metricsWriter:       metricsWriter,
		subscriptionManager: events.NewSubscriptionManager(),
	}
	service.current.loader = service.newLoader()

	service.periodicUpdater = NewPeriodicUpdater(
		cfg.Loader.ReloadInterval,
		cfg.Loader.WarmUp,
		service.Reload,
	)

	return service, nil
}

func (s *Service) newLoader() *loader.DataLoader {
	return loader.New(s.basePath,
		loader.WithHTTPClient(s.client),
		loader.WithMetricsWriter(s.metricsWriter),
	)
}

func (s *Service) Start(ctx context.Context) error {
	log.Printf("Cards data service: loading from %s", s.basePath)
	return s.periodicUpdater.Start(ctx)
}

func (s *Service) Stop() {
	s.periodicUpdater.Stop()
}

// Loader returns the loader currently serving requests
func (s *Service) Loader() *loader.DataLoader {
	s.current.RLock()
	defer s.current.RUnlock()
	return s.current.loader
}

// BasePath returns the resolved data location
func (s *Service) BasePath() string {
	return s.basePath
}

// Reload loads everything into a fresh loader, with a new cache-busting
// token, and swaps it in on success. On failure the current loader stays.
func (s *Service) Reload(ctx context.Context) error {
	startTime := time.Now()

	fresh := s.newLoader()
	if _, err := fresh.LoadAll(ctx); err != nil {
		return fmt.Errorf("reload cards data: %w", err)
	}

	s.current.Lock()
	s.current.loader = fresh
	s.current.Unlock()
	s.initialized.Store(true)

	stats := fresh.GetStats()
	s.metricsWriter.RecordReload(time.Since(startTime))
	s.metricsWriter.RecordCacheSize(stats.CacheSize)
	metrics.RecordCardsByTheme(stats.CardsByTheme)

	s.subscriptionManager.Emit(ctx, events.Event{
		Kind:       events.EventReloaded,
		Themes:     stats.Themes,
		TotalCards: stats.TotalCards,
		At:         time.Now(),
	})

	log.Printf("Reloaded cards data, now contains %d themes with %d cards", stats.Themes, stats.TotalCards)
	return nil
}

// ClearCache clears the current loader's cache
func (s *Service) ClearCache(ctx context.Context) {
	s.Loader().ClearCache()

	s.subscriptionManager.Emit(ctx, events.Event{
		Kind: events.EventCleared,
		At:   time.Now(),
	})
}

// Healthy reports whether the service can serve data. When a warm-up or
// periodic reload is configured, at least one reload must have succeeded.
func (s *Service) Healthy() bool {
	if !s.config.WarmUp && s.config.ReloadInterval <= 0 {
		return true
	}
	return s.initialized.Load()
}

// SubscribeOnDataUpdate returns a subscription to reload and clear events
func (s *Service) SubscribeOnDataUpdate() events.ISubscription {
	return s.subscriptionManager.Subscribe()
}
