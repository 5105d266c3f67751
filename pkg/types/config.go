package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to the backend.
type HTTPConfig struct {
	// Timeout bounds quick requests such as listing articles.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-client/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for talking to the scraping API.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root, e.g. "http://localhost:5000/api".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ScrapeTimeout bounds a scrape request (default 10m). Scraping a
	// full author profile routinely takes minutes.
	ScrapeTimeout time.Duration `json:"scrape_timeout" yaml:"scrape_timeout"`

	// MaxRetries is the number of retries for rate-limited list requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Token is an optional bearer token sent with every request.
	Token string `json:"-" yaml:"-"`
}

// CacheConfig holds settings for the local article cache.
type CacheConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`
}
