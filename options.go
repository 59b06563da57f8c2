package mechfinder

import (
	"time"

	"go.uber.org/zap"
)

type clientConfig struct {
	directoryURL  string
	directoryKey  string
	placesKey     string
	placesURL     string
	placesRPS     float64
	placesBurst   int
	chainDenylist []string
	timeout       time.Duration
	logger        *zap.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithDirectory points the client at the first-party directory. The base URL
// must not end with a slash.
func WithDirectory(baseURL, apiKey string) Option {
	return func(c *clientConfig) {
		c.directoryURL = baseURL
		c.directoryKey = apiKey
	}
}

// WithPlacesAPIKey enables the Google Places source. Without a key every
// search degrades to directory-only results.
func WithPlacesAPIKey(key string) Option {
	return func(c *clientConfig) { c.placesKey = key }
}

// WithPlacesBaseURL overrides the provider endpoint, mainly for tests.
func WithPlacesBaseURL(baseURL string) Option {
	return func(c *clientConfig) { c.placesURL = baseURL }
}

// WithPlacesRateLimit bounds outgoing provider calls.
func WithPlacesRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		c.placesRPS = rps
		c.placesBurst = burst
	}
}

// WithChainDenylist replaces the built-in franchise exclusion list.
func WithChainDenylist(names []string) Option {
	return func(c *clientConfig) { c.chainDenylist = names }
}

// WithTimeout sets the per-request timeout for both upstream sources.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
