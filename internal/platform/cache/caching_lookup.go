// Package cache provides caching implementations for lookup interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"movie_ranking/internal/feature/movies/domain/entity"
	"movie_ranking/internal/feature/movies/usecase"
)

// CachingMovieLookup decorates a MovieLookup with Redis caching.
// Only successful responses are cached; lookup errors always reach the caller.
type CachingMovieLookup struct {
	inner     usecase.MovieLookup
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MovieLookup = (*CachingMovieLookup)(nil)

// NewCachingMovieLookup decorates a MovieLookup with Redis caching.
// If ttl is 0, it defaults to 1 hour. If namespace is empty, it uses "tmdb".
// A nil rdb disables caching.
func NewCachingMovieLookup(rdb *redis.Client, ttl time.Duration, inner usecase.MovieLookup, namespace string) *CachingMovieLookup {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "tmdb"
	}
	return &CachingMovieLookup{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Search returns cached candidates for the title, falling back to the inner lookup.
func (c *CachingMovieLookup) Search(ctx context.Context, title string) ([]entity.Candidate, error) {
	if c.rdb == nil {
		return c.inner.Search(ctx, title)
	}

	key := c.searchKey(title)
	var cached []entity.Candidate
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// FetchDetails returns cached details for the external id, falling back to the inner lookup.
func (c *CachingMovieLookup) FetchDetails(ctx context.Context, externalID int64) (*entity.MovieDetails, error) {
	if c.rdb == nil {
		return c.inner.FetchDetails(ctx, externalID)
	}

	key := c.detailsKey(externalID)
	var cached entity.MovieDetails
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := c.inner.FetchDetails(ctx, externalID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// load reads and decodes a cache entry. Corrupted entries are deleted.
func (c *CachingMovieLookup) load(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes a cache entry (best effort).
func (c *CachingMovieLookup) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("failed to cache lookup response", "key", key, "error", err)
	}
}

// searchKey generates a cache key for a title search. Titles are matched case-insensitively.
func (c *CachingMovieLookup) searchKey(title string) string {
	return fmt.Sprintf("%s:search:%s", c.namespace, safe(strings.ToLower(strings.TrimSpace(title))))
}

// detailsKey generates a cache key for a details lookup.
func (c *CachingMovieLookup) detailsKey(externalID int64) string {
	return fmt.Sprintf("%s:movie:%d", c.namespace, externalID)
}
