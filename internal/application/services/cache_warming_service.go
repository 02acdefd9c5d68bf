package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/tourbooking/backend/internal/domain/providers"
	"github.com/zatekoja/tourbooking/backend/internal/domain/repositories"
)

// CacheWarmingService primes favorite status entries for a user
type CacheWarmingService struct {
	favorites repositories.FavoriteRepository
	cache     providers.CacheProvider
	ttl       int
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(
	favorites repositories.FavoriteRepository,
	cache providers.CacheProvider,
	ttlSeconds int,
) *CacheWarmingService {
	return &CacheWarmingService{
		favorites: favorites,
		cache:     cache,
		ttl:       ttlSeconds,
	}
}

// WarmFavoriteStatuses writes a true status entry for every active favorite of
// the user so that the tour cards a client renders next are served from cache.
// It returns the number of entries written.
func (s *CacheWarmingService) WarmFavoriteStatuses(ctx context.Context, userID string) (int, error) {
	total, err := s.favorites.CountActiveByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	if total == 0 {
		return 0, nil
	}

	favorites, err := s.favorites.ListActiveByUser(ctx, userID, total, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list favorites: %w", err)
	}

	warmed := 0
	for _, favorite := range favorites {
		key := providers.FavoriteStatusKey(userID, favorite.TourID)
		if err := s.cache.Set(ctx, key, []byte("true"), s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to warm favorite status")
			continue
		}
		warmed++
	}

	log.Debug().Str("user_id", userID).Int("warmed", warmed).Msg("Favorite status cache warmed")
	return warmed, nil
}
