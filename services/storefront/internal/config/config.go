package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/ArnoldEsquivel/palindrome-web/pkg/config"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/tracing"
)

// EnvironmentProduction is the environment in which the offline fallback
// catalog is never allowed.
const EnvironmentProduction = "production"

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFile receives the JSON log. Empty means stderr; stdout carries the page.
	LogFile string `env:"LOG_FILE"`

	// Search API. An empty base URL selects the offline fixture catalog.
	SearchAPIBaseURL string        `env:"SEARCH_API_BASE_URL"`
	RequestTimeout   time.Duration `env:"SEARCH_REQUEST_TIMEOUT" envDefault:"10s"`
	Debounce         time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"400ms"`
	MaxRetries       int           `env:"SEARCH_MAX_RETRIES" envDefault:"0"`

	// Circuit breaker around the search API.
	BreakerFailureRatio float64       `env:"SEARCH_BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"SEARCH_BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerOpenTimeout  time.Duration `env:"SEARCH_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Tracing.ServiceName = "storefront"
	cfg.Tracing.Environment = cfg.Environment
	return cfg, nil
}

// UsesFallback reports whether searches are answered from the fixture catalog.
func (c *Config) UsesFallback() bool {
	return c.SearchAPIBaseURL == ""
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.SearchAPIBaseURL == "" {
		if c.Environment == EnvironmentProduction {
			return errors.New("SEARCH_API_BASE_URL is required in production")
		}
	} else if u, err := url.Parse(c.SearchAPIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid SEARCH_API_BASE_URL %q", c.SearchAPIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid SEARCH_REQUEST_TIMEOUT: %s", c.RequestTimeout)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("invalid SEARCH_DEBOUNCE: %s", c.Debounce)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid SEARCH_MAX_RETRIES: %d", c.MaxRetries)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("invalid SEARCH_BREAKER_FAILURE_RATIO: %v", c.BreakerFailureRatio)
	}
	return nil
}
