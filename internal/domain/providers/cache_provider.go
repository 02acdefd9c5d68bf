package providers

import (
	"context"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache. Returns ErrCacheMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes values from cache
	Delete(ctx context.Context, keys ...string) error
}

// FavoriteStatusKey is the cache key holding whether userID has favorited tourID
func FavoriteStatusKey(userID, tourID string) string {
	return fmt.Sprintf("favorite:status:%s:%s", userID, tourID)
}
