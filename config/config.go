package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Loader     LoaderConfig     `yaml:"loader"`
	HTTPClient HTTPClientConfig `yaml:"http_client"`
	Server     ServerConfig     `yaml:"server"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Loader:     DefaultLoaderConfig(),
		HTTPClient: DefaultHTTPClientConfig(),
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error

	if c.Loader.ReloadInterval < 0 {
		errs = append(errs, fmt.Errorf("loader.reload_interval must not be negative"))
	}
	if c.HTTPClient.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("http_client.max_retries must be at least 1"))
	}
	if c.HTTPClient.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("http_client.rate_limit_per_minute must not be negative"))
	}
	if c.HTTPClient.Burst < 0 {
		errs = append(errs, fmt.Errorf("http_client.burst must not be negative"))
	}
	if c.Server.Port == "" {
		errs = append(errs, fmt.Errorf("server.port must be set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
