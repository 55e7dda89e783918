package config

import "time"

// HTTPClientConfig configures the transport used to fetch card data
type HTTPClientConfig struct {
	// MaxRetries is the number of attempts per request; 1 disables retries
	MaxRetries        int           `yaml:"max_retries" env:"CARDS_HTTP_MAX_RETRIES"`
	BaseBackoff       time.Duration `yaml:"base_backoff"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"CARDS_HTTP_REQUEST_TIMEOUT"`

	// RateLimitPerMinute of 0 means unlimited
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	Burst              int `yaml:"burst"`
}

// DefaultHTTPClientConfig returns default transport configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		MaxRetries:        1,
		BaseBackoff:       time.Second,
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}
