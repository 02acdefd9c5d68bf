package repositories

import (
	"context"

	"github.com/zatekoja/tourbooking/backend/internal/domain/entities"
)

// FavoriteReader defines read operations on favorites
type FavoriteReader interface {
	// ListActiveByUser returns a page of the user's non-deleted favorites in
	// display order.
	ListActiveByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Favorite, error)

	// CountActiveByUser counts the user's non-deleted favorites
	CountActiveByUser(ctx context.Context, userID string) (int, error)

	// ListActiveByTour returns every non-deleted favorite of a tour, newest first
	ListActiveByTour(ctx context.Context, tourID string) ([]*entities.Favorite, error)

	// IsFavorite reports whether the user has an active favorite on the tour
	IsFavorite(ctx context.Context, userID, tourID string) (bool, error)
}

// FavoriteStore is the view of the repository available while the per-user
// lock is held. Every method runs in the same transaction.
type FavoriteStore interface {
	// FindByUserAndTour returns the favorite for (user, tour) whether deleted
	// or not. Returns a NOT_FOUND AppError when none exists.
	FindByUserAndTour(ctx context.Context, userID, tourID string) (*entities.Favorite, error)

	// ListAllActiveByUser returns every active favorite of the user in display order
	ListAllActiveByUser(ctx context.Context, userID string) ([]*entities.Favorite, error)

	// Insert stores a new favorite
	Insert(ctx context.Context, favorite *entities.Favorite) error

	// UpdateState persists IsDeleted, Order and UpdatedAt of a favorite
	UpdateState(ctx context.Context, favorite *entities.Favorite) error

	// ApplyOrder sets Order to the index of each ID in orderedIDs. All IDs must
	// belong to userID.
	ApplyOrder(ctx context.Context, userID string, orderedIDs []string) error
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	FavoriteReader

	// WithUserLock runs fn atomically while holding the user's favorites lock.
	// Writes made through the store are discarded when fn returns an error.
	WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context, store FavoriteStore) error) error
}
