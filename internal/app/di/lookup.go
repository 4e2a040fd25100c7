// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"movie_ranking/internal/feature/movies/usecase"
	"movie_ranking/internal/platform/cache"
	"movie_ranking/internal/platform/externalapi/tmdb"
	infrahttp "movie_ranking/internal/platform/http"
)

// NewMovieLookup creates a rate-limited TMDB client.
// If Redis is available, responses are cached in front of it.
func NewMovieLookup(cfg tmdb.Config, rdb *redis.Client) usecase.MovieLookup {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, infrahttp.NewLimiter(cfg.RateLimit))
	client := tmdb.NewClient(cfg, httpClient)
	if rdb == nil {
		return client
	}
	return cache.NewCachingMovieLookup(rdb, cfg.CacheTTL, client, "tmdb")
}
