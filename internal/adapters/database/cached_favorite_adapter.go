package database

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/tourbooking/backend/internal/infrastructure/observability"
)

const statusCacheFamily = "favorite_status"

// CachedFavoriteAdapter puts a read-through status cache in front of a
// FavoriteRepository. Writers keep the cache current through the service.
type CachedFavoriteAdapter struct {
	adapter repositories.FavoriteRepository
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

// NewCachedFavoriteAdapter creates a new cached favorite adapter
func NewCachedFavoriteAdapter(adapter repositories.FavoriteRepository, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) repositories.FavoriteRepository {
	return &CachedFavoriteAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
		metrics: metrics,
	}
}

// IsFavorite answers from the status cache and falls back to the database
func (a *CachedFavoriteAdapter) IsFavorite(ctx context.Context, userID, tourID string) (bool, error) {
	key := providers.FavoriteStatusKey(userID, tourID)

	cached, err := a.cache.Get(ctx, key)
	if err == nil {
		if status, parseErr := strconv.ParseBool(string(cached)); parseErr == nil {
			observability.RecordCacheHit(ctx, a.metrics, statusCacheFamily)
			return status, nil
		}
		log.Warn().Str("key", key).Msg("Discarding malformed favorite status cache entry")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Favorite status cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, statusCacheFamily)

	status, err := a.adapter.IsFavorite(ctx, userID, tourID)
	if err != nil {
		return false, err
	}

	if err := a.cache.Set(ctx, key, []byte(strconv.FormatBool(status)), a.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache favorite status")
	}
	return status, nil
}

// ListActiveByUser delegates to the underlying adapter
func (a *CachedFavoriteAdapter) ListActiveByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Favorite, error) {
	return a.adapter.ListActiveByUser(ctx, userID, limit, offset)
}

// CountActiveByUser delegates to the underlying adapter
func (a *CachedFavoriteAdapter) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	return a.adapter.CountActiveByUser(ctx, userID)
}

// ListActiveByTour delegates to the underlying adapter
func (a *CachedFavoriteAdapter) ListActiveByTour(ctx context.Context, tourID string) ([]*entities.Favorite, error) {
	return a.adapter.ListActiveByTour(ctx, tourID)
}

// WithUserLock delegates to the underlying adapter
func (a *CachedFavoriteAdapter) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context, store repositories.FavoriteStore) error) error {
	return a.adapter.WithUserLock(ctx, userID, fn)
}
