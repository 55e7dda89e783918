package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "cards_loader_"

// Service constants
const (
	ServiceLoader = "loader"
	ServiceCards  = "cards"
	ServiceCLI    = "cli"
)

// Resource kinds used as label values. Card collections share one label
// regardless of theme to keep cardinality bounded.
const (
	ResourceConfig = "config"
	ResourceThemes = "themes"
	ResourceCards  = "cards"
)

// Request statuses
const (
	StatusSuccess        = "success"
	StatusHTTPError      = "http_error"
	StatusTransportError = "transport_error"
	StatusMalformed      = "malformed"
	StatusRateLimited    = "rate_limited"
	StatusError          = "error"
)

var (
	// Transport-level request counter
	// Cardinality: ~15 (3 services × 5 statuses)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "http_requests_total",
			Help: "Total number of HTTP attempts made by the transport",
		},
		[]string{"service", "status"},
	)

	// Retry attempts counter
	// Cardinality: ~3 (number of services)
	HTTPRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "http_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// Resource loads by outcome
	// Cardinality: ~12 (3 resources × 4 statuses)
	ResourceLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "resource_loads_total",
			Help: "Total number of resource fetches by resource kind and outcome",
		},
		[]string{"resource", "status"},
	)

	// Fetch latency per resource kind
	// Cardinality: ~3
	ResourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "resource_fetch_duration_seconds",
			Help: "Time taken to fetch and decode a resource",
		},
		[]string{"resource"},
	)

	// Cache lookups
	// Cardinality: ~6 (3 resources × hit/miss)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Loader cache lookups by resource kind and result",
		},
		[]string{"resource", "result"},
	)

	// Service cache size
	// Cardinality: ~3 (number of services)
	ServiceCacheSizeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "service_cache_size",
			Help: "Number of items in service cache",
		},
		[]string{"service"},
	)

	// CardsByThemeGauge tracks the number of cards per theme after a reload
	// Cardinality: number of themes in the registry
	CardsByThemeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "cards_by_theme",
			Help: "Number of cards per theme",
		},
		[]string{"theme"},
	)

	// Full reload duration
	// Cardinality: ~3 (number of services)
	ReloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "reload_duration_seconds",
			Help: "Time taken to complete a full data reload",
		},
		[]string{"service"},
	)
)

// RecordCardsByTheme records the number of cards for each theme
func RecordCardsByTheme(cardsByTheme map[string]int) {
	// Reset first so that removed themes disappear
	CardsByThemeGauge.Reset()

	for theme, count := range cardsByTheme {
		CardsByThemeGauge.WithLabelValues(theme).Set(float64(count))
	}
	log.Printf("Metrics: recorded card counts for %d themes", len(cardsByTheme))
}

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordResourceLoad records the outcome and duration of a resource fetch
func (mw *MetricsWriter) RecordResourceLoad(resource, status string, duration time.Duration) {
	ResourceLoadsTotal.WithLabelValues(resource, status).Inc()
	ResourceFetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordCacheLookup records a loader cache hit or miss
func (mw *MetricsWriter) RecordCacheLookup(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(resource, result).Inc()
}

// RecordCacheSize records the number of items in service cache
func (mw *MetricsWriter) RecordCacheSize(size int) {
	ServiceCacheSizeGauge.WithLabelValues(mw.serviceName).Set(float64(size))
}

// RecordReload records the duration of a full reload
func (mw *MetricsWriter) RecordReload(duration time.Duration) {
	ReloadDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
	log.Printf("Metrics: %s reload took %.2fs", mw.serviceName, duration.Seconds())
}

// OnRequest records a transport attempt with its status
func (mw *MetricsWriter) OnRequest(status string) {
	HTTPRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// OnRetry records a transport retry attempt
func (mw *MetricsWriter) OnRetry() {
	HTTPRetryCounter.WithLabelValues(mw.serviceName).Inc()
	log.Printf("Metrics: %s recorded a retry attempt", mw.serviceName)
}
