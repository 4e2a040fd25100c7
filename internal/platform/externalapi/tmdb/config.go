// Package tmdb provides a client for The Movie Database (TMDB) API.
package tmdb

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration for the TMDB API client.
type Config struct {
	APIKey       string        `envconfig:"TMDB_API_KEY" required:"true"`                                          // API key sent as the api_key query parameter
	SearchURL    string        `envconfig:"TMDB_SEARCH_URL" default:"https://api.themoviedb.org/3/search/movie"` // search-by-title endpoint
	InfoURL      string        `envconfig:"TMDB_INFO_URL" default:"https://api.themoviedb.org/3/movie"`          // fetch-by-id endpoint prefix
	ImageBaseURL string        `envconfig:"TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/w500"`       // prepended to poster_path
	Timeout      time.Duration `envconfig:"TMDB_TIMEOUT" default:"10s"`                                          // whole-request HTTP timeout
	RateLimit    float64       `envconfig:"TMDB_RATE_LIMIT" default:"20"`                                        // outbound requests per second
	CacheTTL     time.Duration `envconfig:"TMDB_CACHE_TTL" default:"1h"`                                         // lifetime of cached responses
}

// LoadConfig loads TMDB configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load tmdb config: %w", err)
	}
	return cfg, nil
}
